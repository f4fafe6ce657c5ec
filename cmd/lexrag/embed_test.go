package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hmnguyen/lexrag/internal/embedding"
	"github.com/hmnguyen/lexrag/internal/index"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"no documents", errNoDocuments, ExitNotFound},
		{"index not found", index.ErrIndexNotFound, ExitNotFound},
		{"missing api key", embedding.ErrMissingAPIKey, ExitConfigError},
		{"wrapped index not found", fmt.Errorf("loading: %w", index.ErrIndexNotFound), ExitNotFound},
		{"wrapped missing key", fmt.Errorf("building provider: %w", embedding.ErrMissingAPIKey), ExitConfigError},
		{"generic error", errors.New("disk full"), ExitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
