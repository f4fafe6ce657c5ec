// Package main provides the lexrag CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hmnguyen/lexrag/internal/config"
	"github.com/hmnguyen/lexrag/internal/logger"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// verboseOutput controls pipeline debug logging on stderr
var verboseOutput bool

// cfg holds the global configuration used for flag defaults.
var cfg = loadConfig()

func main() {
	// Provider credentials may live in a .env file; absence is fine.
	godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lexrag",
	Short: "Retrieval-augmented QA over Vietnamese legal documents",
	Long: `lexrag splits a legal PDF into per-article sections, embeds them
into a vector index, and answers natural-language questions grounded
in the retrieved articles.

Typical flow:

  lexrag split --pdf-path luat.pdf --output-dir corpus
  lexrag embed --split-dir corpus --index-dir index
  lexrag ask --query "Điều 5 quy định gì?" --index-dir index`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verboseOutput)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verboseOutput, "verbose", "v", false, "Print pipeline debug logging to stderr")
	rootCmd.Version = Version
}

// loadConfig loads the global config, falling back to defaults when the
// file is unreadable.
func loadConfig() *config.Config {
	c, err := config.Load()
	if err != nil {
		logger.Warn("loading config: %v (using defaults)", err)
		return config.Default()
	}
	return c
}
