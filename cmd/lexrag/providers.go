package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/hmnguyen/lexrag/internal/embedding"
)

// providerOptions collects the flags selecting and configuring an
// embedding provider.
type providerOptions struct {
	name        string // "openai" or "ollama"
	model       string // remote embedding model
	batchSize   int    // remote batch size
	ollamaModel string // local embedding model
	ollamaURL   string // local Ollama endpoint
}

// registerProviderFlags adds the shared embedding flags to a command.
func registerProviderFlags(opts *providerOptions, flags *pflag.FlagSet) {
	flags.StringVar(&opts.name, "provider", cfg.Provider, "Embedding provider: openai or ollama")
	flags.StringVar(&opts.model, "model", cfg.EmbedModel, "Remote embedding model")
	flags.IntVar(&opts.batchSize, "batch-size", cfg.BatchSize, "Remote embedding batch size")
	flags.StringVar(&opts.ollamaModel, "ollama-model", cfg.OllamaModel, "Local embedding model served by Ollama")
	flags.StringVar(&opts.ollamaURL, "ollama-url", cfg.OllamaURL, "Ollama API base URL")
}

// buildProvider constructs the embedding provider selected by opts.
func buildProvider(opts providerOptions) (embedding.Provider, error) {
	switch opts.name {
	case "openai":
		return embedding.NewOpenAIProvider(
			embedding.WithOpenAIModel(opts.model),
			embedding.WithBatchSize(opts.batchSize),
		)
	case "ollama":
		return embedding.NewOllamaProvider(
			embedding.WithBaseURL(opts.ollamaURL),
			embedding.WithOllamaModel(opts.ollamaModel),
		), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want openai or ollama)", opts.name)
	}
}
