package sentiment

import (
	"strings"

	"github.com/jonreiter/govader"
)

// VaderAnalyzer wraps the VADER valence analyzer tuned for short informal
// text.
type VaderAnalyzer struct {
	sia *govader.SentimentIntensityAnalyzer
}

// NewVaderAnalyzer builds the analyzer with its bundled lexicon.
func NewVaderAnalyzer() *VaderAnalyzer {
	return &VaderAnalyzer{sia: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderAnalyzer) Name() string { return "vader" }

// Compound returns the normalized compound score in [-1,1].
func (v *VaderAnalyzer) Compound(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return v.sia.PolarityScores(text).Compound
}
