package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrNoSnapshots       = errors.New("no recorded snapshots")
	ErrMissingColumn     = errors.New("missing column")
	ErrUnknownSink       = errors.New("unknown storage sink")
	ErrUnknownLemmatizer = errors.New("unknown lemmatizer")
	ErrSessionClosed     = errors.New("page session closed")
)

// PageError wraps failures of the page capability during a group run.
type PageError struct {
	Group string
	Op    string // open, count, load_more, snapshot
	Err   error
}

func (e *PageError) Error() string {
	if e.Group == "" {
		return fmt.Sprintf("page %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("page %s for group %q: %v", e.Op, e.Group, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

// ParseError wraps errors that occur while parsing a page snapshot.
type ParseError struct {
	Selector string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error (selector=%q): %v", e.Selector, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StorageError wraps errors that occur during storage/export.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// PipelineError wraps errors that occur in the analysis pipeline.
type PipelineError struct {
	Stage string
	Item  *AnalyzedItem
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline error at stage %q: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
