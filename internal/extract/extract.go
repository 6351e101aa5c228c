// Package extract finds candidate posts in a page snapshot and resolves the
// engagement metadata that Reddit renders in nodes following each title.
package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/IshaanNene/forumpulse/internal/config"
	"github.com/IshaanNene/forumpulse/internal/types"
)

// Candidate is a post title node that has not yet been checked for uniqueness.
type Candidate struct {
	ID       string
	Title    string
	Votes    types.Field
	Comments types.Field
	PostTime types.Field
}

// Extractor applies a SelectorConfig to page snapshots.
type Extractor struct {
	sel        config.SelectorConfig
	counterRow cascadia.Sel
	counter    cascadia.Sel
	timestamp  cascadia.Sel
	timeEl     cascadia.Sel
	logger     *slog.Logger
}

// New compiles the selectors once.
func New(sel config.SelectorConfig, logger *slog.Logger) (*Extractor, error) {
	e := &Extractor{
		sel:    sel,
		logger: logger.With("component", "extractor"),
	}

	compiled := []struct {
		dst *cascadia.Sel
		src string
	}{
		{&e.counterRow, sel.CounterRow},
		{&e.counter, sel.Counter},
		{&e.timestamp, sel.Timestamp},
		{&e.timeEl, sel.Time},
	}
	for _, c := range compiled {
		s, err := cascadia.Parse(c.src)
		if err != nil {
			return nil, &types.ParseError{Selector: c.src, Err: err}
		}
		*c.dst = s
	}
	if _, err := cascadia.Parse(sel.Item); err != nil {
		return nil, &types.ParseError{Selector: sel.Item, Err: err}
	}

	return e, nil
}

// ItemSelector returns the CSS selector that matches candidate posts.
func (e *Extractor) ItemSelector() string { return e.sel.Item }

// Candidates parses a snapshot and returns every post node in document order.
// Nodes without an identifier are skipped since they cannot be deduplicated.
func (e *Extractor) Candidates(snapshot string) ([]Candidate, error) {
	root, err := htmlquery.Parse(strings.NewReader(snapshot))
	if err != nil {
		return nil, &types.ParseError{Selector: e.sel.Item, Err: fmt.Errorf("parse snapshot: %w", err)}
	}
	doc := goquery.NewDocumentFromNode(root)

	var out []Candidate
	doc.Find(e.sel.Item).Each(func(_ int, s *goquery.Selection) {
		id, ok := s.Attr(e.sel.IDAttr)
		if !ok || strings.TrimSpace(id) == "" {
			e.logger.Debug("candidate without identifier skipped", "attr", e.sel.IDAttr)
			return
		}

		c := Candidate{
			ID:    id,
			Title: strings.TrimSpace(s.Text()),
		}
		c.Votes, c.Comments, c.PostTime = e.Fields(s.Nodes[0])
		out = append(out, c)
	})

	return out, nil
}

// Fields resolves votes, comments and post time for one post node. Each piece
// is looked up independently and becomes types.Missing when its markup is absent.
func (e *Extractor) Fields(n *html.Node) (votes, comments, postTime types.Field) {
	votes, comments = types.Missing, types.Missing
	postTime = types.Missing

	if row := findNext(n, e.counterRow); row != nil {
		numbers := cascadia.QueryAll(row, e.counter)
		if len(numbers) >= 2 {
			votes = types.Present(strings.TrimSpace(htmlquery.InnerText(numbers[0])))
			comments = types.Present(strings.TrimSpace(htmlquery.InnerText(numbers[1])))
		}
	}

	if ts := findNext(n, e.timestamp); ts != nil {
		if el := cascadia.Query(ts, e.timeEl); el != nil {
			if full, ok := attr(el, e.sel.TimeAttr); ok {
				postTime = types.Present(firstTokens(full, 3))
			}
		}
	}

	return votes, comments, postTime
}

// findNext returns the first element after n in document order that matches
// sel. The walk visits n's descendants before the nodes that follow it.
func findNext(n *html.Node, sel cascadia.Sel) *html.Node {
	for cur := nextInDocument(n); cur != nil; cur = nextInDocument(cur) {
		if cur.Type == html.ElementNode && sel.Match(cur) {
			return cur
		}
	}
	return nil
}

func nextInDocument(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// firstTokens keeps the first k whitespace-separated tokens; for Reddit's
// "January 1, 2024 12:00 UTC" titles that is the date part.
func firstTokens(s string, k int) string {
	fields := strings.Fields(s)
	if len(fields) > k {
		fields = fields[:k]
	}
	return strings.Join(fields, " ")
}
