package types

import (
	"strconv"
)

// Column names of the collected table, in output order.
var CollectedColumns = []string{"subreddit", "title", "votes", "comments", "post_time"}

// Column names of the enriched table, in output order.
var AnalyzedColumns = append(append([]string{}, CollectedColumns...),
	"clean_title", "polarity", "subjectivity", "vader_polarity")

// Record is a row as seen by storage sinks.
type Record interface {
	// Values returns cell text in column order.
	Values() []string

	// Document returns typed values keyed by column name.
	Document() map[string]any
}

// CollectedItem is one unique post found in a group's search results.
type CollectedItem struct {
	// ID is the identifier the page assigned to the post element.
	ID string

	// Group is the topic group (subreddit) the post was found in.
	Group string

	Title    string
	Votes    Field
	Comments Field
	PostTime Field
}

// Values implements Record.
func (c CollectedItem) Values() []string {
	return []string{c.Group, c.Title, c.Votes.String(), c.Comments.String(), c.PostTime.String()}
}

// Document implements Record.
func (c CollectedItem) Document() map[string]any {
	doc := map[string]any{
		"subreddit": c.Group,
		"title":     c.Title,
		"votes":     c.Votes.Any(),
		"comments":  c.Comments.Any(),
		"post_time": c.PostTime.Any(),
	}
	if c.ID != "" {
		doc["post_id"] = c.ID
	}
	return doc
}

// AnalyzedItem is a CollectedItem enriched by the analysis pipeline.
type AnalyzedItem struct {
	CollectedItem

	CleanTitle    string
	Polarity      float64
	Subjectivity  float64
	VaderPolarity float64
}

// NewAnalyzedItem copies a collected item into a fresh analyzed item.
func NewAnalyzedItem(c CollectedItem) *AnalyzedItem {
	return &AnalyzedItem{CollectedItem: c}
}

// Values implements Record.
func (a AnalyzedItem) Values() []string {
	return append(a.CollectedItem.Values(),
		a.CleanTitle,
		formatFloat(a.Polarity),
		formatFloat(a.Subjectivity),
		formatFloat(a.VaderPolarity),
	)
}

// Document implements Record.
func (a AnalyzedItem) Document() map[string]any {
	doc := a.CollectedItem.Document()
	doc["clean_title"] = a.CleanTitle
	doc["polarity"] = a.Polarity
	doc["subjectivity"] = a.Subjectivity
	doc["vader_polarity"] = a.VaderPolarity
	return doc
}

// CollectedRecords adapts a slice of items to storage records.
func CollectedRecords(items []CollectedItem) []Record {
	out := make([]Record, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

// AnalyzedRecords adapts a slice of analyzed items to storage records.
func AnalyzedRecords(items []*AnalyzedItem) []Record {
	out := make([]Record, len(items))
	for i, it := range items {
		out[i] = *it
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
