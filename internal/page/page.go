// Package page abstracts the live page a collection run drives: count the
// loaded posts, ask for more, and take a full HTML snapshot.
package page

import (
	"context"
)

// Page is the capability the collector needs from a loaded search page.
type Page interface {
	// Count returns how many elements currently match the CSS selector.
	Count(ctx context.Context, selector string) (int, error)

	// LoadMore asks the page to load further content (scroll to the end).
	LoadMore(ctx context.Context) error

	// Snapshot returns the full HTML of the currently loaded content.
	Snapshot(ctx context.Context) (string, error)
}

// Session is a Page exclusively owned by one group run. Close must be
// called on every exit path.
type Session interface {
	Page
	Close() error
}

// Opener acquires a Session navigated to a URL.
type Opener interface {
	// Open navigates to url. group names the run for recording and logs.
	Open(ctx context.Context, group, url string) (Session, error)
}
