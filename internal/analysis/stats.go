package analysis

import (
	"math"
	"sort"
	"strings"

	"github.com/IshaanNene/forumpulse/internal/text"
	"github.com/IshaanNene/forumpulse/internal/types"
)

// Count is a label with its number of occurrences.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Bin is one half-open interval [Lo, Hi) of a histogram. The last bin also
// includes Hi.
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// Histogram is an equal-width histogram over a fixed range.
type Histogram struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Bins []Bin   `json:"bins"`
}

// Point is one item's score by its row index.
type Point struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

// Summary describes one score column.
type Summary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Stats is everything the reports are rendered from.
type Stats struct {
	Items        int                `json:"items"`
	Groups       []Count            `json:"groups"`
	TopWords     []Count            `json:"top_words"`
	CloudWords   []Count            `json:"-"`
	Vader        Histogram          `json:"vader_histogram"`
	Subjectivity Histogram          `json:"subjectivity_histogram"`
	Scatter      []Point            `json:"-"`
	Summary      map[string]Summary `json:"summary"`
}

// Options controls the statistics.
type Options struct {
	ExcludedTerms []string
	TopN          int
	Bins          int
	// CloudWords caps the words sent to the word cloud. Zero means no cap.
	CloudWords int
}

// Compute derives all statistics from the enriched rows.
func Compute(items []*types.AnalyzedItem, opts Options) *Stats {
	words := WordFrequencies(items, opts.ExcludedTerms)

	vader := make([]float64, len(items))
	polarity := make([]float64, len(items))
	subjectivity := make([]float64, len(items))
	scatter := make([]Point, len(items))
	for i, it := range items {
		vader[i] = it.VaderPolarity
		polarity[i] = it.Polarity
		subjectivity[i] = it.Subjectivity
		scatter[i] = Point{Index: i, Value: it.VaderPolarity}
	}

	return &Stats{
		Items:        len(items),
		Groups:       GroupFrequencies(items),
		TopWords:     topN(words, opts.TopN),
		CloudWords:   topN(words, opts.CloudWords),
		Vader:        NewHistogram(vader, -1, 1, opts.Bins),
		Subjectivity: NewHistogram(subjectivity, 0, 1, opts.Bins),
		Scatter:      scatter,
		Summary: map[string]Summary{
			"polarity":       Summarize(polarity),
			"subjectivity":   Summarize(subjectivity),
			"vader_polarity": Summarize(vader),
		},
	}
}

// GroupFrequencies counts rows per group, most frequent first.
func GroupFrequencies(items []*types.AnalyzedItem) []Count {
	counts := make(map[string]int)
	for _, it := range items {
		counts[it.Group]++
	}
	return sortCounts(counts)
}

// WordFrequencies counts clean-title tokens, skipping excluded terms
// case-insensitively. Most frequent first, ties by word.
func WordFrequencies(items []*types.AnalyzedItem, excluded []string) []Count {
	skip := text.NewStopwordSet(excluded)
	counts := make(map[string]int)
	for _, it := range items {
		for _, w := range text.Tokens(it.CleanTitle) {
			if skip.Contains(strings.ToLower(w)) {
				continue
			}
			counts[w]++
		}
	}
	return sortCounts(counts)
}

// NewHistogram bins values into n equal-width bins over [lo, hi]. Values
// outside the range fall into the nearest end bin.
func NewHistogram(values []float64, lo, hi float64, n int) Histogram {
	if n <= 0 {
		n = 1
	}
	width := (hi - lo) / float64(n)
	h := Histogram{Min: lo, Max: hi, Bins: make([]Bin, n)}
	for i := range h.Bins {
		h.Bins[i].Lo = lo + float64(i)*width
		h.Bins[i].Hi = lo + float64(i+1)*width
	}
	h.Bins[n-1].Hi = hi

	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		idx := int(math.Floor((v - lo) / width))
		if idx < 0 {
			idx = 0
		}
		if idx >= n {
			idx = n - 1
		}
		h.Bins[idx].Count++
	}
	return h
}

// Summarize returns count, mean, min and max of values.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	s := Summary{Count: len(values), Min: values[0], Max: values[0]}
	var sum float64
	for _, v := range values {
		sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.Mean = sum / float64(len(values))
	return s
}

func sortCounts(counts map[string]int) []Count {
	out := make([]Count, 0, len(counts))
	for name, n := range counts {
		out = append(out, Count{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func topN(counts []Count, n int) []Count {
	if n > 0 && len(counts) > n {
		return counts[:n]
	}
	return counts
}
