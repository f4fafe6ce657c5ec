package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hmnguyen/lexrag/internal/corpus"
	"github.com/hmnguyen/lexrag/internal/embedding"
	"github.com/hmnguyen/lexrag/internal/index"
	"github.com/hmnguyen/lexrag/internal/logger"
	"github.com/hmnguyen/lexrag/internal/storage"
)

var (
	embedSplitDir string
	embedIndexDir string
	embedProvider providerOptions
)

func init() {
	rootCmd.AddCommand(embedCmd)

	embedCmd.Flags().StringVar(&embedSplitDir, "split-dir", "corpus", "Directory of per-article text files")
	embedCmd.Flags().StringVar(&embedIndexDir, "index-dir", "index", "Directory for the persisted index")
	registerProviderFlags(&embedProvider, embedCmd.Flags())
}

// EmbedResponse is the output of the embed command.
type EmbedResponse struct {
	Documents  int    `json:"documents"`
	Dimensions int    `json:"dimensions"`
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	IndexDir   string `json:"index_dir"`
	DurationMs int64  `json:"duration_ms"`
}

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Embed the split corpus and build the vector index",
	Long: `Embed reads every article file from the split directory in filename
order, generates one embedding per article, and persists a flat
inner-product index together with its ordered metadata table.

The remote provider requires OPENAI_API_KEY; the local provider
requires a running Ollama daemon.`,
	Args: cobra.NoArgs,
	RunE: runEmbedCmd,
}

func runEmbedCmd(cmd *cobra.Command, args []string) error {
	provider, err := buildProvider(embedProvider)
	if err != nil {
		if errors.Is(err, embedding.ErrMissingAPIKey) {
			exitWithError(ExitConfigError, "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}

	resp, err := runEmbed(context.Background(), provider, embedProvider.name, embedSplitDir, embedIndexDir)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if humanOutput {
		outputHuman("Indexed %d articles (%d dimensions, %s/%s) into %s in %s\n",
			resp.Documents, resp.Dimensions, resp.Provider, resp.Model, resp.IndexDir,
			formatDuration(time.Duration(resp.DurationMs)*time.Millisecond))
		return nil
	}
	return outputJSON(resp)
}

// errNoDocuments marks an empty or unusable split directory.
var errNoDocuments = errors.New("no usable documents to embed (run 'lexrag split' first)")

// runEmbed reads the corpus, embeds it and persists the index plus
// build provenance. Shared with the all command.
func runEmbed(ctx context.Context, provider embedding.Provider, providerName, splitDir, indexDir string) (*EmbedResponse, error) {
	start := time.Now()

	docs, err := corpus.ReadDocuments(splitDir)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, errNoDocuments
	}

	ids := make([]string, len(docs))
	paths := make([]string, len(docs))
	texts := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
		paths[i] = d.Path
		texts[i] = d.Content
	}

	logger.Info("embedding %d documents with %s/%s", len(docs), providerName, provider.ModelName())
	vectors, err := provider.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding corpus: %w", err)
	}

	idx, err := index.Build(providerName, provider.ModelName(), ids, paths, vectors)
	if err != nil {
		return nil, err
	}
	if err := idx.Save(indexDir); err != nil {
		return nil, err
	}
	logger.Info("saved index and metadata to %s", indexDir)

	if err := saveProvenance(indexDir, providerName, provider.ModelName(), docs); err != nil {
		return nil, err
	}

	return &EmbedResponse{
		Documents:  idx.Rows(),
		Dimensions: idx.Dimensions,
		Provider:   providerName,
		Model:      provider.ModelName(),
		IndexDir:   indexDir,
		DurationMs: time.Since(start).Milliseconds(),
	}, nil
}

// saveProvenance records which provider and model embedded each
// document's content. A rebuild replaces all records.
func saveProvenance(indexDir, providerName, modelName string, docs []corpus.Document) error {
	db, err := storage.Open(storage.DBPath(indexDir))
	if err != nil {
		return fmt.Errorf("opening provenance database: %w", err)
	}
	defer db.Close()

	if err := db.Clear(); err != nil {
		return fmt.Errorf("clearing provenance: %w", err)
	}

	now := time.Now().Unix()
	for _, d := range docs {
		rec := storage.Record{
			DocID:       d.ID,
			Provider:    providerName,
			ModelName:   modelName,
			ContentHash: storage.HashContent(d.Content),
			IndexedAt:   now,
		}
		if err := db.Save(rec); err != nil {
			return fmt.Errorf("saving provenance for %s: %w", d.ID, err)
		}
	}

	return nil
}

// exitCodeFor maps pipeline errors to exit codes.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, errNoDocuments), errors.Is(err, index.ErrIndexNotFound):
		return ExitNotFound
	case errors.Is(err, embedding.ErrMissingAPIKey):
		return ExitConfigError
	default:
		return ExitError
	}
}
