// Package pipeline enriches collected posts through an ordered chain of
// analysis stages.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/IshaanNene/forumpulse/internal/types"
)

// Middleware processes an item and returns the (possibly modified) item.
// Return nil to drop the item from the pipeline.
type Middleware interface {
	// Name returns the middleware's identifier.
	Name() string

	// Process transforms an item. Return nil to drop the item.
	Process(item *types.AnalyzedItem) (*types.AnalyzedItem, error)
}

// Pipeline chains middleware processors together.
type Pipeline struct {
	middlewares []Middleware
	logger      *slog.Logger
}

// New creates a new Pipeline.
func New(logger *slog.Logger) *Pipeline {
	return &Pipeline{
		logger: logger.With("component", "pipeline"),
	}
}

// Use adds a middleware to the pipeline chain.
func (p *Pipeline) Use(mw Middleware) {
	p.middlewares = append(p.middlewares, mw)
	p.logger.Debug("middleware added", "name", mw.Name(), "position", len(p.middlewares))
}

// Process runs the item through all middleware in order.
func (p *Pipeline) Process(item *types.AnalyzedItem) (*types.AnalyzedItem, error) {
	current := item

	for _, mw := range p.middlewares {
		result, err := mw.Process(current)
		if err != nil {
			return nil, &types.PipelineError{
				Stage: mw.Name(),
				Item:  current,
				Err:   err,
			}
		}
		if result == nil {
			p.logger.Debug("item dropped", "stage", mw.Name(), "group", item.Group, "title", item.Title)
			return nil, nil
		}
		current = result
	}

	return current, nil
}

// ProcessAll enriches a copy of every collected row, in order. Dropped
// rows are left out. The first stage error aborts the run.
func (p *Pipeline) ProcessAll(ctx context.Context, rows []types.CollectedItem) ([]*types.AnalyzedItem, error) {
	out := make([]*types.AnalyzedItem, 0, len(rows))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item, err := p.Process(types.NewAnalyzedItem(row))
		if err != nil {
			return nil, err
		}
		if item != nil {
			out = append(out, item)
		}
	}
	if dropped := len(rows) - len(out); dropped > 0 {
		p.logger.Info("rows dropped", "count", dropped)
	}
	return out, nil
}

// Len returns the number of middleware in the chain.
func (p *Pipeline) Len() int {
	return len(p.middlewares)
}
