package pipeline

import (
	"github.com/IshaanNene/forumpulse/internal/sentiment"
	"github.com/IshaanNene/forumpulse/internal/text"
	"github.com/IshaanNene/forumpulse/internal/types"
)

// CleanTitleMiddleware derives clean_title from the title.
type CleanTitleMiddleware struct {
	Cleaner *text.Cleaner
}

func (m *CleanTitleMiddleware) Name() string { return "clean_title" }

func (m *CleanTitleMiddleware) Process(item *types.AnalyzedItem) (*types.AnalyzedItem, error) {
	item.CleanTitle = m.Cleaner.Clean(item.Title)
	return item, nil
}

// SentimentMiddleware scores the clean title with both analyzers. The two
// signals are stored side by side and never combined.
type SentimentMiddleware struct {
	Scorer *sentiment.Scorer
}

func (m *SentimentMiddleware) Name() string { return "sentiment" }

func (m *SentimentMiddleware) Process(item *types.AnalyzedItem) (*types.AnalyzedItem, error) {
	sc := m.Scorer.Score(item.CleanTitle)
	item.Polarity = sc.Polarity
	item.Subjectivity = sc.Subjectivity
	item.VaderPolarity = sc.VaderPolarity
	return item, nil
}

// NewAnalysis builds the standard chain: clean the title, then score it.
func NewAnalysis(p *Pipeline, cleaner *text.Cleaner, scorer *sentiment.Scorer) *Pipeline {
	p.Use(&CleanTitleMiddleware{Cleaner: cleaner})
	p.Use(&SentimentMiddleware{Scorer: scorer})
	return p
}
