// Package provider holds the external AI and photo-search collaborators the
// command dispatcher calls into. Both are fallible; callers are expected to
// contain failures rather than propagate them.
package provider

import "context"

// Asker answers a free-text question with a free-text answer.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// PhotoSearcher resolves a free-text query to an image URL.
type PhotoSearcher interface {
	Search(ctx context.Context, query string) (string, error)
}
