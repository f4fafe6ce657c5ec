package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/hmnguyen/lexrag/internal/generator"
	"github.com/hmnguyen/lexrag/internal/logger"
	"github.com/hmnguyen/lexrag/internal/retriever"
	"github.com/hmnguyen/lexrag/internal/server"
)

var (
	serveAddr      string
	serveIndexDir  string
	serveStaticDir string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", cfg.Addr, "Listen address")
	serveCmd.Flags().StringVar(&serveIndexDir, "index-dir", "index", "Default index directory for requests that omit one")
	serveCmd.Flags().StringVar(&serveStaticDir, "static-dir", cfg.StaticDir, "Optional front-end directory served at /app/")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ask pipeline over HTTP",
	Long: `Serve exposes POST /ask: the request carries the question plus
optional per-request overrides (index directory, provider, top-k,
generation model); the response carries the answer and its sources.
Pipeline failures are returned as 400 responses with a message.`,
	Args: cobra.NoArgs,
	RunE: runServeCmd,
}

func runServeCmd(cmd *cobra.Command, args []string) error {
	handler := server.NewHandler(askPipeline, serveStaticDir)

	logger.Info("listening on %s", serveAddr)
	if humanOutput {
		outputHuman("lexrag serving on %s\n", serveAddr)
	}
	if err := http.ListenAndServe(serveAddr, handler); err != nil {
		exitWithError(ExitError, "serving: %v", err)
	}
	return nil
}

// askPipeline runs retrieval + generation for one HTTP request,
// applying the serve defaults for any field the request omits.
func askPipeline(ctx context.Context, req server.AskRequest) (server.AskResponse, error) {
	opts := providerOptions{
		name:        req.Provider,
		model:       cfg.EmbedModel,
		batchSize:   cfg.BatchSize,
		ollamaModel: req.OllamaModel,
		ollamaURL:   cfg.OllamaURL,
	}
	if opts.name == "" {
		opts.name = cfg.Provider
	}
	if opts.ollamaModel == "" {
		opts.ollamaModel = cfg.OllamaModel
	}

	provider, err := buildProvider(opts)
	if err != nil {
		return server.AskResponse{}, err
	}

	groqModel := req.GroqModel
	if groqModel == "" {
		groqModel = cfg.GroqModel
	}
	gen, err := generator.NewGroqGenerator(
		generator.WithGroqModel(groqModel),
		generator.WithMaxContextChars(cfg.MaxContextChars),
	)
	if err != nil {
		return server.AskResponse{}, err
	}

	indexDir := req.IndexDir
	if indexDir == "" {
		indexDir = serveIndexDir
	}
	topK := req.TopK
	if topK <= 0 {
		topK = cfg.TopK
	}

	ret, err := retriever.New(provider, indexDir).Query(ctx, req.Query, topK)
	if err != nil {
		return server.AskResponse{}, err
	}

	answer, err := gen.Generate(ctx, req.Query, ret.Contexts)
	if err != nil {
		return server.AskResponse{}, fmt.Errorf("generating answer: %w", err)
	}

	resp := server.AskResponse{Answer: answer, Sources: make([]server.Source, 0, len(ret.Results))}
	for _, r := range ret.Results {
		resp.Sources = append(resp.Sources, server.Source{Rank: r.Rank, Score: r.Score, ID: r.ID, Path: r.Path})
	}
	return resp, nil
}
