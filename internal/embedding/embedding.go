// Package embedding provides vector embedding generation for text.
package embedding

import "errors"

// ErrMissingAPIKey indicates the remote provider credential is absent.
// It is returned before any network call is made.
var ErrMissingAPIKey = errors.New("embedding API key not set")

// Embedding represents a vector embedding of text.
type Embedding struct {
	Vector []float32 // The embedding vector (e.g., 1536 dimensions for text-embedding-3-small)
}

// Dimensions returns the dimensionality of the embedding.
func (e Embedding) Dimensions() int {
	return len(e.Vector)
}
