package embedding

import "context"

// Provider generates embeddings from text.
type Provider interface {
	// EmbedBatch generates one embedding per input text, preserving
	// input order. A failure anywhere aborts the whole call; no partial
	// results are returned.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// ModelName returns the name of the embedding model.
	ModelName() string

	// Dimensions returns the expected vector dimensions.
	Dimensions() int
}

// EmbedOne embeds a single text through the same batch code path and
// returns its vector.
func EmbedOne(ctx context.Context, p Provider, text string) ([]float32, error) {
	vectors, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}
