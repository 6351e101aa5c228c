package sentiment

import (
	"math"
	"testing"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	s, err := NewScorer(nil)
	if err != nil {
		t.Fatalf("new scorer: %v", err)
	}
	return s
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestPatternAnalyzer(t *testing.T) {
	a := newTestScorer(t).pattern

	tests := []struct {
		name     string
		in       string
		pol, sub float64
	}{
		{name: "empty", in: "", pol: 0, sub: 0},
		{name: "unknown words", in: "galaxy s24 battery", pol: 0, sub: 0},
		{name: "single word", in: "great camera", pol: 0.8, sub: 0.75},
		{name: "mean of words", in: "good bad", pol: 0, sub: (0.6 + 0.667) / 2},
		{name: "negation", in: "dont like", pol: 0.1 * negationFactor, sub: 0.2},
		{name: "intensifier", in: "very good", pol: 0.7 * 1.3, sub: 0.6 * 1.3},
		{name: "intensifier clamps", in: "extremely awesome", pol: 1, sub: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pol, sub := a.Analyze(tt.in)
			if !approx(pol, tt.pol) || !approx(sub, tt.sub) {
				t.Errorf("Analyze(%q) = (%v, %v), want (%v, %v)", tt.in, pol, sub, tt.pol, tt.sub)
			}
		})
	}
}

func TestPatternAnalyzerRanges(t *testing.T) {
	a := newTestScorer(t).pattern
	for _, in := range []string{"worst terrible awful", "absolutely absolutely perfect", "dont hate"} {
		pol, sub := a.Analyze(in)
		if pol < -1 || pol > 1 {
			t.Errorf("polarity out of range for %q: %v", in, pol)
		}
		if sub < 0 || sub > 1 {
			t.Errorf("subjectivity out of range for %q: %v", in, sub)
		}
	}
}

func TestVaderAnalyzer(t *testing.T) {
	v := newTestScorer(t).vader
	if got := v.Compound("great love amazing"); got <= 0 {
		t.Errorf("expected positive compound, got %v", got)
	}
	if got := v.Compound("terrible awful hate"); got >= 0 {
		t.Errorf("expected negative compound, got %v", got)
	}
	if got := v.Compound(""); got != 0 {
		t.Errorf("expected 0 for empty text, got %v", got)
	}
}

func TestScoreDeterministic(t *testing.T) {
	s := newTestScorer(t)
	for _, in := range []string{"battery life great", "screen broken terrible", ""} {
		first := s.Score(in)
		second := s.Score(in)
		if first != second {
			t.Errorf("Score(%q) not deterministic: %+v then %+v", in, first, second)
		}
		if first.VaderPolarity < -1 || first.VaderPolarity > 1 {
			t.Errorf("vader out of range: %v", first.VaderPolarity)
		}
	}
}

func TestParseLexiconErrors(t *testing.T) {
	if _, err := parseLexicon("good\t0.7\t0.6"); err == nil {
		t.Error("expected error for missing column")
	}
	if _, err := parseLexicon("good\tx\t0.6\t1"); err == nil {
		t.Error("expected error for bad number")
	}
	lex, err := parseLexicon("# header\n\ngood\t0.7\t0.6\t1\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(lex) != 1 {
		t.Errorf("expected 1 entry, got %d", len(lex))
	}
}

func TestAddForms(t *testing.T) {
	a, err := NewPatternAnalyzer()
	if err != nil {
		t.Fatalf("new analyzer: %v", err)
	}
	forms := map[string]string{
		"amazing":  "amaze",
		"broken":   "break",
		"worse":    "bad", // existing entries are not overwritten
		"terrible": "very terrible",
	}
	added := a.AddForms(func(w string) string {
		if f, ok := forms[w]; ok {
			return f
		}
		return w
	})
	if added != 2 {
		t.Errorf("expected 2 forms added, got %d", added)
	}

	tests := []struct {
		in       string
		pol, sub float64
	}{
		{"amaze", 0.6, 0.9},
		{"break", -0.4, 0.4},
		{"bad", -0.7, 0.667},
		{"amazing", 0.6, 0.9},
	}
	for _, tt := range tests {
		pol, sub := a.Analyze(tt.in)
		if !approx(pol, tt.pol) || !approx(sub, tt.sub) {
			t.Errorf("Analyze(%q) = (%v, %v), want (%v, %v)", tt.in, pol, sub, tt.pol, tt.sub)
		}
	}
}

func TestForumTermsScored(t *testing.T) {
	a := newTestScorer(t).pattern
	for _, w := range []string{"issue", "problem", "bug", "crash", "lag"} {
		if pol, _ := a.Analyze(w); pol >= 0 {
			t.Errorf("expected negative polarity for %q, got %v", w, pol)
		}
	}
	if pol, _ := a.Analyze("upgrade"); pol <= 0 {
		t.Errorf("expected positive polarity for upgrade, got %v", pol)
	}
}
