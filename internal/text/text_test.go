package text

import (
	"errors"
	"testing"

	"github.com/IshaanNene/forumpulse/internal/types"
)

func TestCleanRemovesNoise(t *testing.T) {
	c := NewCleaner(nil, IdentityLemmatizer{})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "only whitespace", in: "   \t ", want: ""},
		{name: "url removed", in: "Check this https://example.com/a?b=1 battery", want: "check battery"},
		{name: "punctuation removed", in: "Battery life: AMAZING!!!", want: "battery life amazing"},
		{name: "stopwords dropped", in: "The camera is the best of all", want: "camera best"},
		{name: "apostrophes collapse words", in: "Don't buy it", want: "dont buy"},
		{name: "digits and underscore kept", in: "S24_Ultra 512GB", want: "s24_ultra 512gb"},
		{name: "unicode letters kept", in: "Café größe", want: "café größe"},
		{name: "extra spaces", in: "  one   two  ", want: "one two"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		"Galaxy S24 battery drains fast!! http://t.co/xyz",
		"What is the BEST case for my phone?",
		"Galaxy AI is the first dry run I could try",
		"Others have done worse, broken and annoying updates",
		"",
	}
	for _, name := range []string{"golem", "snowball", "none"} {
		lem, err := NewLemmatizer(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		c := NewCleaner(nil, lem)
		for _, in := range inputs {
			once := c.Clean(in)
			if noise.MatchString(once) {
				t.Errorf("%s: Clean(%q) = %q keeps non-word characters", name, in, once)
			}
			if twice := c.Clean(once); twice != once {
				t.Errorf("%s: Clean not idempotent for %q: %q then %q", name, in, once, twice)
			}
		}
	}
}

func TestDictionaryLemmatizer(t *testing.T) {
	lem, err := NewLemmatizer("golem")
	if err != nil {
		t.Fatalf("golem: %v", err)
	}
	if lem.Name() != "golem" {
		t.Errorf("expected golem, got %s", lem.Name())
	}

	c := NewCleaner(nil, lem)
	tests := []struct {
		in   string
		want string
	}{
		{"Batteries and cameras", "battery camera"},
		{"battery camera", "battery camera"},
		{"Amazing battery, loving it!", "amaze battery love"},
		{"Crashed again, issues everywhere", "crash issue everywhere"},
		// dictionary lemmas that are stopwords, punctuated or numeric are refused
		{"Galaxy AI is the first dry run I could try", "galaxy ai first dry run could try"},
	}
	for _, tt := range tests {
		if got := c.Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type fixedLemmatizer map[string]string

func (fixedLemmatizer) Name() string { return "fixed" }

func (f fixedLemmatizer) Lemma(w string) string {
	if l, ok := f[w]; ok {
		return l
	}
	return w
}

func TestCleanRejectsUnusableLemmas(t *testing.T) {
	c := NewCleaner(nil, fixedLemmatizer{
		"first":  "\ufeff1",
		"dry":    "spin-dry",
		"ai":     "be",
		"phones": "Phone",
		"fold":   "fold up",
		"s24":    "s",
		"went":   "gone",
		"gone":   "go",
		"cases":  "case",
	})
	got := c.Clean("first dry ai phones fold s24 went cases")
	if want := "first dry ai phones fold s24 went case"; got != want {
		t.Errorf("Clean = %q, want %q", got, want)
	}
}

func TestStemLemmatizer(t *testing.T) {
	lem := StemLemmatizer{}
	if got := lem.Lemma("running"); got != "run" {
		t.Errorf("expected run, got %q", got)
	}
}

func TestUnknownLemmatizer(t *testing.T) {
	_, err := NewLemmatizer("porter2000")
	if !errors.Is(err, types.ErrUnknownLemmatizer) {
		t.Errorf("expected ErrUnknownLemmatizer, got %v", err)
	}
}

func TestStopwords(t *testing.T) {
	sw := EnglishStopwords()
	for _, w := range []string{"the", "is", "my", "wouldn't"} {
		if !sw.Contains(w) {
			t.Errorf("expected %q to be a stopword", w)
		}
	}
	if sw.Contains("battery") {
		t.Error("battery is not a stopword")
	}

	custom := NewStopwordSet([]string{"Samsung"})
	if !custom.Contains("samsung") {
		t.Error("custom set should be lowercased")
	}
}

func TestTokens(t *testing.T) {
	if got := Tokens("a  b c"); len(got) != 3 {
		t.Errorf("expected 3 tokens, got %v", got)
	}
}
