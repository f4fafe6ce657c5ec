package index

import (
	"math"
	"testing"
)

func TestSearch_NormalizationRoundTrip(t *testing.T) {
	idx := buildTestIndex(t)

	// Querying with a stored row (post-normalization) must return that
	// row as the top hit with score ~1.0.
	for row := range idx.Docs {
		query := make([]float32, idx.Dimensions)
		copy(query, idx.Docs[row].Vector)

		hits := idx.Search(query, 1)
		if len(hits) != 1 {
			t.Fatalf("expected 1 hit, got %d", len(hits))
		}
		if hits[0].Row != row {
			t.Errorf("top hit for row %d query = row %d", row, hits[0].Row)
		}
		if math.Abs(float64(hits[0].Score)-1.0) > 1e-4 {
			t.Errorf("top hit score = %v, want ~1.0", hits[0].Score)
		}
	}
}

func TestSearch_TopKBound(t *testing.T) {
	idx := buildTestIndex(t)
	query := []float32{1, 0, 0}
	Normalize(query)

	t.Run("k larger than corpus", func(t *testing.T) {
		hits := idx.Search(query, 10)
		if len(hits) != idx.Rows() {
			t.Errorf("expected %d hits, got %d", idx.Rows(), len(hits))
		}
		for _, h := range hits {
			if h.Row < 0 || h.Row >= idx.Rows() {
				t.Errorf("row %d out of range [0, %d)", h.Row, idx.Rows())
			}
		}
	})

	t.Run("k smaller than corpus", func(t *testing.T) {
		hits := idx.Search(query, 2)
		if len(hits) != 2 {
			t.Errorf("expected 2 hits, got %d", len(hits))
		}
	})

	t.Run("k zero", func(t *testing.T) {
		if hits := idx.Search(query, 0); hits != nil {
			t.Errorf("expected nil hits for k=0, got %v", hits)
		}
	})
}

func TestSearch_DescendingScoreOrder(t *testing.T) {
	idx := buildTestIndex(t)
	query := []float32{3, 1, 0}
	Normalize(query)

	hits := idx.Search(query, 3)
	for i := 1; i < len(hits); i++ {
		if hits[i].Score > hits[i-1].Score {
			t.Errorf("hits not in descending order: %v", hits)
		}
	}
	if hits[0].Row != 0 {
		t.Errorf("top hit row = %d, want 0", hits[0].Row)
	}
}

func TestSearch_TieBreakKeepsRowOrder(t *testing.T) {
	idx, err := Build("openai", "m",
		[]string{"a", "b"},
		[]string{"pa", "pb"},
		[][]float32{{1, 0}, {1, 0}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	query := []float32{1, 0}
	hits := idx.Search(query, 2)
	if hits[0].Row != 0 || hits[1].Row != 1 {
		t.Errorf("equal scores should keep row order, got %v", hits)
	}
}

func TestSearch_DimensionMismatchReturnsNil(t *testing.T) {
	idx := buildTestIndex(t)
	if hits := idx.Search([]float32{1, 0}, 3); hits != nil {
		t.Errorf("expected nil for query dimension mismatch, got %v", hits)
	}
}
