package index

import "sort"

// Hit is one search result: an index row and its inner-product score.
// Scores are cosine similarities in [-1, 1] because both stored and
// query vectors are unit length.
type Hit struct {
	Row   int
	Score float32
}

// Search returns up to k rows nearest to query, ordered by descending
// inner-product score. Equal scores keep row order. The query must be
// normalized the same way build-time vectors were; Normalize it first.
// Returned rows are always in [0, Rows()).
func (idx *Index) Search(query []float32, k int) []Hit {
	if k <= 0 || len(query) != idx.Dimensions {
		return nil
	}

	hits := make([]Hit, 0, len(idx.Docs))
	for row, doc := range idx.Docs {
		hits = append(hits, Hit{Row: row, Score: dot(query, doc.Vector)})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits
}

// dot computes the inner product of two equal-length vectors.
func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
