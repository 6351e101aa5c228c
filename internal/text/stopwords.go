package text

import (
	_ "embed"
	"strings"
)

//go:embed stopwords_en.txt
var englishStopwordList string

// StopwordSet is a lookup set of lowercase stopwords.
type StopwordSet map[string]struct{}

// EnglishStopwords returns the standard English stopword list used by the
// NLTK corpus.
func EnglishStopwords() StopwordSet {
	return NewStopwordSet(strings.Fields(englishStopwordList))
}

// NewStopwordSet builds a set from words, lowercasing each.
func NewStopwordSet(words []string) StopwordSet {
	set := make(StopwordSet, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

// Contains reports whether w is a stopword.
func (s StopwordSet) Contains(w string) bool {
	_, ok := s[w]
	return ok
}
