package text

import (
	"fmt"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/kljensen/snowball"

	"github.com/IshaanNene/forumpulse/internal/types"
)

// Lemmatizer reduces a lowercase token to its base form.
type Lemmatizer interface {
	Name() string
	Lemma(word string) string
}

// NewLemmatizer returns the lemmatizer registered under name.
func NewLemmatizer(name string) (Lemmatizer, error) {
	switch name {
	case "golem", "":
		return NewDictionaryLemmatizer()
	case "snowball":
		return StemLemmatizer{}, nil
	case "none":
		return IdentityLemmatizer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownLemmatizer, name)
	}
}

// DictionaryLemmatizer looks words up in the golem English dictionary.
// Unknown words are returned unchanged.
type DictionaryLemmatizer struct {
	lem *golem.Lemmatizer
}

// NewDictionaryLemmatizer loads the English dictionary.
func NewDictionaryLemmatizer() (*DictionaryLemmatizer, error) {
	lem, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("load english dictionary: %w", err)
	}
	return &DictionaryLemmatizer{lem: lem}, nil
}

func (d *DictionaryLemmatizer) Name() string { return "golem" }

func (d *DictionaryLemmatizer) Lemma(word string) string {
	return d.lem.Lemma(word)
}

// StemLemmatizer applies the Snowball English stemmer.
type StemLemmatizer struct{}

func (StemLemmatizer) Name() string { return "snowball" }

func (StemLemmatizer) Lemma(word string) string {
	stemmed, err := snowball.Stem(word, "english", true)
	if err != nil || stemmed == "" {
		return word
	}
	return stemmed
}

// IdentityLemmatizer leaves tokens as they are.
type IdentityLemmatizer struct{}

func (IdentityLemmatizer) Name() string { return "none" }

func (IdentityLemmatizer) Lemma(word string) string { return word }
