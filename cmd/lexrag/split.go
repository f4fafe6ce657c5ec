package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hmnguyen/lexrag/internal/corpus"
	"github.com/hmnguyen/lexrag/internal/logger"
	"github.com/hmnguyen/lexrag/internal/pdf"
	"github.com/hmnguyen/lexrag/internal/splitter"
)

var (
	splitPDFPath   string
	splitOutputDir string
)

func init() {
	rootCmd.AddCommand(splitCmd)

	splitCmd.Flags().StringVar(&splitPDFPath, "pdf-path", "", "Path to the source PDF (required)")
	splitCmd.Flags().StringVar(&splitOutputDir, "output-dir", "corpus", "Directory for per-article text files")
	splitCmd.MarkFlagRequired("pdf-path")
}

// SplitResponse is the output of the split command.
type SplitResponse struct {
	Sections  int    `json:"sections"`
	Written   int    `json:"written"`
	OutputDir string `json:"output_dir"`
}

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split a legal PDF into per-article text files",
	Long: `Split extracts the text of a legal PDF and partitions it into one
file per article ("Điều <n>"). Front matter before the first article
heading is dropped. Files are written to the output directory named by
the sanitized article id, e.g. điều_5.txt.`,
	Args: cobra.NoArgs,
	RunE: runSplitCmd,
}

func runSplitCmd(cmd *cobra.Command, args []string) error {
	resp, err := runSplit(splitPDFPath, splitOutputDir)
	if err != nil {
		if os.IsNotExist(err) {
			exitWithError(ExitNotFound, "PDF not found: %s", splitPDFPath)
		}
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		outputHuman("Split %d articles into %s (%d files)\n", resp.Sections, resp.OutputDir, resp.Written)
		return nil
	}
	return outputJSON(resp)
}

// runSplit extracts, splits and writes the corpus. Shared with the all
// command.
func runSplit(pdfPath, outputDir string) (*SplitResponse, error) {
	if _, err := os.Stat(pdfPath); err != nil {
		return nil, err
	}

	logger.Info("extracting text from %s", pdfPath)
	lines, err := pdf.ExtractLines(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("extracting PDF text: %w", err)
	}

	sections := splitter.Split(lines)
	logger.Info("detected %d articles", len(sections))

	written, err := corpus.WriteSections(sections, outputDir)
	if err != nil {
		return nil, fmt.Errorf("writing corpus: %w", err)
	}

	return &SplitResponse{
		Sections:  len(sections),
		Written:   len(written),
		OutputDir: outputDir,
	}, nil
}
