package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

// newTestOpenAIProvider builds a provider pointed at a local stub of the
// embeddings endpoint.
func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc, opts ...OpenAIOption) *OpenAIProvider {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = server.URL + "/v1"

	opts = append([]OpenAIOption{WithOpenAIClient(openai.NewClientWithConfig(cfg))}, opts...)
	provider, err := NewOpenAIProvider(opts...)
	if err != nil {
		t.Fatalf("NewOpenAIProvider failed: %v", err)
	}
	return provider
}

func TestNewOpenAIProvider_MissingKey(t *testing.T) {
	t.Setenv(OpenAIKeyEnv, "")

	_, err := NewOpenAIProvider()
	if err == nil {
		t.Fatal("expected error when API key is missing")
	}
}

func TestNewOpenAIProvider_KnownModelDimensions(t *testing.T) {
	t.Setenv(OpenAIKeyEnv, "test-key")

	tests := []struct {
		model string
		dims  int
	}{
		{"text-embedding-3-small", 1536},
		{"text-embedding-3-large", 3072},
		{"text-embedding-ada-002", 1536},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			provider, err := NewOpenAIProvider(WithOpenAIModel(tt.model))
			if err != nil {
				t.Fatalf("NewOpenAIProvider failed: %v", err)
			}
			if provider.Dimensions() != tt.dims {
				t.Errorf("Dimensions() = %d, want %d", provider.Dimensions(), tt.dims)
			}
		})
	}
}

func TestOpenAIProvider_EmbedBatch_Chunking(t *testing.T) {
	var batchSizes []int
	handler := func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		batchSizes = append(batchSizes, len(req.Input))

		resp := openai.EmbeddingResponse{Object: "list"}
		for i := range req.Input {
			resp.Data = append(resp.Data, openai.Embedding{
				Object:    "embedding",
				Index:     i,
				Embedding: []float32{float32(len(req.Input[i])), 0, 0},
			})
		}
		json.NewEncoder(w).Encode(resp)
	}

	provider := newTestOpenAIProvider(t, handler,
		WithBatchSize(2),
		WithOpenAIDimensions(3),
	)

	vectors, err := provider.EmbedBatch(context.Background(), []string{"a", "bb", "ccc", "dddd", "eeeee"})
	if err != nil {
		t.Fatalf("EmbedBatch failed: %v", err)
	}

	if len(vectors) != 5 {
		t.Fatalf("expected 5 vectors, got %d", len(vectors))
	}
	// Order preserved across batch boundaries.
	for i, want := range []float32{1, 2, 3, 4, 5} {
		if vectors[i][0] != want {
			t.Errorf("vector %d order marker = %v, want %v", i, vectors[i][0], want)
		}
	}

	wantBatches := []int{2, 2, 1}
	if len(batchSizes) != len(wantBatches) {
		t.Fatalf("batch sizes = %v, want %v", batchSizes, wantBatches)
	}
	for i := range wantBatches {
		if batchSizes[i] != wantBatches[i] {
			t.Errorf("batch %d size = %d, want %d", i, batchSizes[i], wantBatches[i])
		}
	}
}

func TestOpenAIProvider_EmbedBatch_FailureAborts(t *testing.T) {
	var calls int
	handler := func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls > 1 {
			http.Error(w, `{"error": {"message": "quota exceeded"}}`, http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(openai.EmbeddingResponse{
			Object: "list",
			Data: []openai.Embedding{
				{Object: "embedding", Embedding: []float32{1, 0, 0}},
				{Object: "embedding", Embedding: []float32{0, 1, 0}},
			},
		})
	}

	provider := newTestOpenAIProvider(t, handler,
		WithBatchSize(2),
		WithOpenAIDimensions(3),
	)

	vectors, err := provider.EmbedBatch(context.Background(), []string{"a", "b", "c", "d"})
	if err == nil {
		t.Fatal("expected error when a batch fails")
	}
	if vectors != nil {
		t.Error("no partial results should be returned")
	}
}

func TestOpenAIProvider_ImplementsProvider(t *testing.T) {
	var _ Provider = (*OpenAIProvider)(nil)
}
