package embedding

import (
	"context"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

const (
	// DefaultOpenAIModel is the default remote embedding model.
	DefaultOpenAIModel = "text-embedding-3-small"

	// DefaultBatchSize is the maximum number of texts sent per API request.
	DefaultBatchSize = 64

	// OpenAIKeyEnv is the environment variable holding the API key.
	OpenAIKeyEnv = "OPENAI_API_KEY"

	// openAIRateLimit caps embedding requests per second to stay under
	// provider throttling.
	openAIRateLimit = 5.0
)

// openAIModelDimensions maps known models to their vector dimensions.
var openAIModelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// OpenAIProvider generates embeddings using the OpenAI API, batching
// inputs to respect upstream request limits.
type OpenAIProvider struct {
	client     *openai.Client
	limiter    *rate.Limiter
	model      string
	dimensions int
	batchSize  int
}

// OpenAIOption configures an OpenAIProvider.
type OpenAIOption func(*OpenAIProvider)

// WithOpenAIModel sets the embedding model.
func WithOpenAIModel(model string) OpenAIOption {
	return func(p *OpenAIProvider) {
		p.model = model
	}
}

// WithBatchSize sets the maximum number of texts per API request.
func WithBatchSize(n int) OpenAIOption {
	return func(p *OpenAIProvider) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// WithOpenAIDimensions overrides the expected vector dimensions for
// models not in the known table.
func WithOpenAIDimensions(dims int) OpenAIOption {
	return func(p *OpenAIProvider) {
		p.dimensions = dims
	}
}

// WithOpenAIClient replaces the API client. Used in tests.
func WithOpenAIClient(client *openai.Client) OpenAIOption {
	return func(p *OpenAIProvider) {
		p.client = client
	}
}

// NewOpenAIProvider creates an OpenAI embedding provider. The API key is
// read from OPENAI_API_KEY; its absence is an error before any request
// is made.
func NewOpenAIProvider(opts ...OpenAIOption) (*OpenAIProvider, error) {
	p := &OpenAIProvider{
		limiter:   rate.NewLimiter(rate.Limit(openAIRateLimit), 1),
		model:     DefaultOpenAIModel,
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.client == nil {
		key := os.Getenv(OpenAIKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingAPIKey, OpenAIKeyEnv)
		}
		p.client = openai.NewClient(key)
	}

	if p.dimensions == 0 {
		dims, ok := openAIModelDimensions[p.model]
		if !ok {
			dims = openAIModelDimensions[DefaultOpenAIModel]
		}
		p.dimensions = dims
	}

	return p, nil
}

// EmbedBatch generates embeddings for texts in input order. Inputs are
// chunked into batches of at most the configured batch size; a failed
// batch aborts the whole call.
func (p *OpenAIProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += p.batchSize {
		end := start + p.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Model: openai.EmbeddingModel(p.model),
			Input: batch,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embeddings request: %w", err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("openai returned %d embeddings for %d inputs", len(resp.Data), len(batch))
		}

		for _, d := range resp.Data {
			if len(d.Embedding) != p.dimensions {
				return nil, fmt.Errorf("unexpected embedding dimensions: got %d, want %d", len(d.Embedding), p.dimensions)
			}
			vectors = append(vectors, d.Embedding)
		}
	}

	return vectors, nil
}

// ModelName returns the name of the embedding model.
func (p *OpenAIProvider) ModelName() string {
	return p.model
}

// Dimensions returns the expected vector dimensions.
func (p *OpenAIProvider) Dimensions() int {
	return p.dimensions
}
