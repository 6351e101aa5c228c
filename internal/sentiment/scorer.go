// Package sentiment computes two independent sentiment signals for a
// cleaned title.
package sentiment

// Scores holds both signals for one title. They are never combined.
type Scores struct {
	Polarity      float64 `json:"polarity"`
	Subjectivity  float64 `json:"subjectivity"`
	VaderPolarity float64 `json:"vader_polarity"`
}

// Scorer runs the lexicon analyzer and the VADER analyzer side by side.
type Scorer struct {
	pattern *PatternAnalyzer
	vader   *VaderAnalyzer
}

// NewScorer builds both analyzers. normalize is the transform the scored
// text went through; when set, lexicon words are also indexed under their
// normalized form. It may be nil.
func NewScorer(normalize func(string) string) (*Scorer, error) {
	pattern, err := NewPatternAnalyzer()
	if err != nil {
		return nil, err
	}
	if normalize != nil {
		pattern.AddForms(normalize)
	}
	return &Scorer{pattern: pattern, vader: NewVaderAnalyzer()}, nil
}

// Score returns both signals for clean.
func (s *Scorer) Score(clean string) Scores {
	p, subj := s.pattern.Analyze(clean)
	return Scores{
		Polarity:      p,
		Subjectivity:  subj,
		VaderPolarity: s.vader.Compound(clean),
	}
}
