package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hmnguyen/lexrag/internal/index"
	"github.com/hmnguyen/lexrag/internal/storage"
)

var statusIndexDir string

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&statusIndexDir, "index-dir", "index", "Directory of the persisted index")
}

// StatusResponse is the output of the status command.
type StatusResponse struct {
	IndexDir       string `json:"index_dir"`
	Documents      int    `json:"documents"`
	Dimensions     int    `json:"dimensions"`
	Provider       string `json:"provider"`
	Model          string `json:"model"`
	CreatedAt      string `json:"created_at"`
	IndexSizeBytes int64  `json:"index_size_bytes"`
	Provenance     int    `json:"provenance_records"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show information about a built index",
	Args:  cobra.NoArgs,
	RunE:  runStatusCmd,
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	idx, err := index.Load(statusIndexDir)
	if err != nil {
		if errors.Is(err, index.ErrIndexNotFound) {
			exitWithError(ExitNotFound, "index not found in %s (run 'lexrag embed' first)", statusIndexDir)
		}
		exitWithError(ExitError, "%v", err)
	}

	var indexSize int64
	if info, err := os.Stat(filepath.Join(statusIndexDir, index.IndexFileName)); err == nil {
		indexSize = info.Size()
	}

	var provenance int
	if db, err := storage.Open(storage.DBPath(statusIndexDir)); err == nil {
		provenance, _ = db.Count()
		db.Close()
	}

	resp := StatusResponse{
		IndexDir:       statusIndexDir,
		Documents:      idx.Rows(),
		Dimensions:     idx.Dimensions,
		Provider:       idx.Provider,
		Model:          idx.ModelName,
		CreatedAt:      idx.CreatedAt.Format("2006-01-02 15:04:05"),
		IndexSizeBytes: indexSize,
		Provenance:     provenance,
	}

	if humanOutput {
		outputHuman("Index: %s\n", resp.IndexDir)
		outputHuman("  documents:  %d\n", resp.Documents)
		outputHuman("  dimensions: %d\n", resp.Dimensions)
		outputHuman("  embedding:  %s/%s\n", resp.Provider, resp.Model)
		outputHuman("  created:    %s\n", resp.CreatedAt)
		outputHuman("  size:       %s\n", formatBytes(resp.IndexSizeBytes))
		outputHuman("  provenance: %d records\n", resp.Provenance)
		return nil
	}
	return outputJSON(resp)
}
