package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/hmnguyen/lexrag/internal/embedding"
)

var (
	allPDFPath  string
	allSplitDir string
	allIndexDir string
	allProvider providerOptions
)

func init() {
	rootCmd.AddCommand(allCmd)

	allCmd.Flags().StringVar(&allPDFPath, "pdf-path", "", "Path to the source PDF (required)")
	allCmd.Flags().StringVar(&allSplitDir, "split-dir", "corpus", "Directory for per-article text files")
	allCmd.Flags().StringVar(&allIndexDir, "index-dir", "index", "Directory for the persisted index")
	registerProviderFlags(&allProvider, allCmd.Flags())
	allCmd.MarkFlagRequired("pdf-path")
}

// AllResponse is the output of the all command.
type AllResponse struct {
	Split *SplitResponse `json:"split"`
	Embed *EmbedResponse `json:"embed"`
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run split then embed with shared directories",
	Args:  cobra.NoArgs,
	RunE:  runAllCmd,
}

func runAllCmd(cmd *cobra.Command, args []string) error {
	provider, err := buildProvider(allProvider)
	if err != nil {
		if errors.Is(err, embedding.ErrMissingAPIKey) {
			exitWithError(ExitConfigError, "%v", err)
		}
		exitWithError(ExitError, "%v", err)
	}

	splitResp, err := runSplit(allPDFPath, allSplitDir)
	if err != nil {
		if os.IsNotExist(err) {
			exitWithError(ExitNotFound, "PDF not found: %s", allPDFPath)
		}
		exitWithError(ExitError, "%v", err)
	}

	embedResp, err := runEmbed(context.Background(), provider, allProvider.name, allSplitDir, allIndexDir)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if humanOutput {
		outputHuman("Split %d articles into %s\n", splitResp.Sections, splitResp.OutputDir)
		outputHuman("Indexed %d articles (%d dimensions) into %s\n",
			embedResp.Documents, embedResp.Dimensions, embedResp.IndexDir)
		return nil
	}
	return outputJSON(AllResponse{Split: splitResp, Embed: embedResp})
}
