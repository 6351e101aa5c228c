package sentiment

import (
	"bufio"
	_ "embed"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

//go:embed lexicon_en.tsv
var englishLexicon string

// negationFactor scales the polarity of a negated word.
const negationFactor = -0.5

var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "nothing": {}, "none": {},
	"dont": {}, "doesnt": {}, "didnt": {}, "isnt": {}, "wasnt": {},
	"cant": {}, "cannot": {}, "wont": {}, "wouldnt": {}, "aint": {},
}

type entry struct {
	polarity     float64
	subjectivity float64
	intensity    float64
}

func (e entry) modifierOnly() bool {
	return e.polarity == 0 && e.subjectivity == 0 && e.intensity != 1
}

// PatternAnalyzer scores text against a word lexicon. Each known word is
// one assessment; a preceding intensifier scales it and a preceding
// negation flips and halves its polarity. The result is the mean of all
// assessments.
type PatternAnalyzer struct {
	lexicon map[string]entry
}

// NewPatternAnalyzer loads the embedded English lexicon.
func NewPatternAnalyzer() (*PatternAnalyzer, error) {
	lex, err := parseLexicon(englishLexicon)
	if err != nil {
		return nil, err
	}
	return &PatternAnalyzer{lexicon: lex}, nil
}

func (a *PatternAnalyzer) Name() string { return "pattern" }

// AddForms indexes every lexicon entry under normalize(word) as well, so
// text normalized the same way still finds it ("amazing" -> "amaze").
// Existing entries win and forms that are not a single token are skipped.
// It returns the number of forms added.
func (a *PatternAnalyzer) AddForms(normalize func(string) string) int {
	words := make([]string, 0, len(a.lexicon))
	for w := range a.lexicon {
		words = append(words, w)
	}
	sort.Strings(words)

	added := 0
	for _, w := range words {
		form := normalize(w)
		if form == "" || form == w || strings.ContainsAny(form, " \t") {
			continue
		}
		if _, ok := a.lexicon[form]; ok {
			continue
		}
		a.lexicon[form] = a.lexicon[w]
		added++
	}
	return added
}

// Analyze returns polarity in [-1,1] and subjectivity in [0,1]. Text with
// no known words scores (0, 0).
func (a *PatternAnalyzer) Analyze(text string) (polarity, subjectivity float64) {
	var (
		n       int
		sumP    float64
		sumS    float64
		scale   = 1.0
		negated bool
	)

	for _, w := range strings.Fields(strings.ToLower(text)) {
		if _, ok := negations[w]; ok {
			negated = true
			continue
		}
		e, ok := a.lexicon[w]
		if !ok {
			continue
		}
		if e.modifierOnly() {
			scale *= e.intensity
			continue
		}

		p := e.polarity * e.intensity * scale
		s := e.subjectivity * e.intensity * scale
		if negated {
			p *= negationFactor
		}
		sumP += clamp(p, -1, 1)
		sumS += clamp(s, 0, 1)
		n++

		scale = 1.0
		negated = false
	}

	if n == 0 {
		return 0, 0
	}
	return clamp(sumP/float64(n), -1, 1), clamp(sumS/float64(n), 0, 1)
}

func parseLexicon(src string) (map[string]entry, error) {
	lex := make(map[string]entry)
	sc := bufio.NewScanner(strings.NewReader(src))
	line := 0
	for sc.Scan() {
		line++
		row := strings.TrimSpace(sc.Text())
		if row == "" || strings.HasPrefix(row, "#") {
			continue
		}
		cols := strings.Split(row, "\t")
		if len(cols) != 4 {
			return nil, fmt.Errorf("lexicon line %d: expected 4 columns, got %d", line, len(cols))
		}
		var vals [3]float64
		for i := range vals {
			v, err := strconv.ParseFloat(cols[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("lexicon line %d: %w", line, err)
			}
			vals[i] = v
		}
		lex[cols[0]] = entry{polarity: vals[0], subjectivity: vals[1], intensity: vals[2]}
	}
	return lex, sc.Err()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
