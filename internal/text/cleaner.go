// Package text normalizes post titles into a canonical token sequence.
package text

import (
	"regexp"
	"strings"
	"unicode"
)

// noise matches URLs and every character that is neither a word character
// nor whitespace.
var noise = regexp.MustCompile(`http\S+|[^\p{L}\p{M}\p{N}_\s]`)

// Cleaner strips URLs and punctuation, lowercases, drops stopwords and
// lemmatizes what remains. Clean is idempotent for every Lemmatizer.
type Cleaner struct {
	stopwords  StopwordSet
	lemmatizer Lemmatizer
}

// NewCleaner creates a Cleaner. A nil stopword set means the English list.
func NewCleaner(stopwords StopwordSet, lemmatizer Lemmatizer) *Cleaner {
	if stopwords == nil {
		stopwords = EnglishStopwords()
	}
	if lemmatizer == nil {
		lemmatizer = IdentityLemmatizer{}
	}
	return &Cleaner{stopwords: stopwords, lemmatizer: lemmatizer}
}

// Clean returns the normalized form of s, tokens joined by single spaces.
func (c *Cleaner) Clean(s string) string {
	s = strings.ToLower(noise.ReplaceAllString(s, ""))

	words := strings.Fields(s)
	kept := words[:0]
	for _, w := range words {
		if c.stopwords.Contains(w) {
			continue
		}
		kept = append(kept, c.lemma(w))
	}
	return strings.Join(kept, " ")
}

// lemma returns the lemmatizer's base form of w when it is a clean token
// itself: lowercase, free of noise and whitespace, not a stopword, of the
// same letter/digit makeup as w, and its own base form. Otherwise w is kept.
func (c *Cleaner) lemma(w string) string {
	l := c.lemmatizer.Lemma(w)
	switch {
	case l == w:
		return w
	case l == "", strings.ToLower(l) != l:
		return w
	case noise.MatchString(l), strings.ContainsFunc(l, unicode.IsSpace):
		return w
	case c.stopwords.Contains(l), makeup(l) != makeup(w):
		return w
	case c.lemmatizer.Lemma(l) != l:
		return w
	}
	return l
}

type charMakeup struct{ letters, digits bool }

func makeup(s string) charMakeup {
	return charMakeup{
		letters: strings.ContainsFunc(s, unicode.IsLetter),
		digits:  strings.ContainsFunc(s, unicode.IsDigit),
	}
}

// Tokens splits a cleaned title into its words.
func Tokens(clean string) []string {
	return strings.Fields(clean)
}
