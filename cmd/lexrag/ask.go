package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/hmnguyen/lexrag/internal/embedding"
	"github.com/hmnguyen/lexrag/internal/generator"
	"github.com/hmnguyen/lexrag/internal/index"
	"github.com/hmnguyen/lexrag/internal/retriever"
)

var (
	askQuery     string
	askIndexDir  string
	askTopK      int
	askGroqModel string
	askProvider  providerOptions
)

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVar(&askQuery, "query", "", "Question to answer (required)")
	askCmd.Flags().StringVar(&askIndexDir, "index-dir", "index", "Directory of the persisted index")
	askCmd.Flags().IntVar(&askTopK, "top-k", cfg.TopK, "Number of nearest articles to retrieve")
	askCmd.Flags().StringVar(&askGroqModel, "groq-model", cfg.GroqModel, "Groq generation model")
	registerProviderFlags(&askProvider, askCmd.Flags())
	askCmd.MarkFlagRequired("query")
}

// AskSource identifies one retrieved article backing the answer.
type AskSource struct {
	Rank  int     `json:"rank"`
	Score float32 `json:"score"`
	ID    string  `json:"id"`
	Path  string  `json:"path"`
}

// CLIAskResponse is the output of the ask command.
type CLIAskResponse struct {
	Answer  string      `json:"answer"`
	Sources []AskSource `json:"sources"`
}

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer a question grounded in the indexed articles",
	Long: `Ask embeds the question, retrieves the nearest articles from the
index, and generates an answer grounded in the retrieved text. When the
question names an article directly ("Điều 5"), that article's full text
is placed ahead of the vector-search context.

Requires GROQ_API_KEY for generation, and the same embedding provider
that built the index.`,
	Args: cobra.NoArgs,
	RunE: runAskCmd,
}

func runAskCmd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	provider, err := buildProvider(askProvider)
	if err != nil {
		if errors.Is(err, embedding.ErrMissingAPIKey) {
			exitWithError(ExitConfigError, "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}

	gen, err := generator.NewGroqGenerator(
		generator.WithGroqModel(askGroqModel),
		generator.WithMaxContextChars(cfg.MaxContextChars),
	)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	ret, err := retriever.New(provider, askIndexDir).Query(ctx, askQuery, askTopK)
	if err != nil {
		if errors.Is(err, index.ErrIndexNotFound) {
			exitWithError(ExitNotFound, "index not found in %s (run 'lexrag embed' first)", askIndexDir)
		}
		exitWithError(exitCodeFor(err), "%v", err)
	}

	answer, err := gen.Generate(ctx, askQuery, ret.Contexts)
	if err != nil {
		exitWithError(ExitProvider, "%v", err)
	}

	if humanOutput {
		outputHuman("%s\n\nSources:\n", answer)
		for _, r := range ret.Results {
			outputHuman("%d. [%.4f] %s\n", r.Rank, r.Score, r.ID)
		}
		return nil
	}

	resp := CLIAskResponse{Answer: answer, Sources: make([]AskSource, 0, len(ret.Results))}
	for _, r := range ret.Results {
		resp.Sources = append(resp.Sources, AskSource{Rank: r.Rank, Score: r.Score, ID: r.ID, Path: r.Path})
	}
	return outputJSON(resp)
}
