// Package retriever performs query-time retrieval: embed the question,
// search the vector index, join hits back to corpus text, and resolve
// direct article-number lookups.
package retriever

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/hmnguyen/lexrag/internal/corpus"
	"github.com/hmnguyen/lexrag/internal/embedding"
	"github.com/hmnguyen/lexrag/internal/index"
	"github.com/hmnguyen/lexrag/internal/logger"
	"github.com/hmnguyen/lexrag/internal/splitter"
)

// DefaultTopK is the default number of nearest sections to retrieve.
const DefaultTopK = 5

// articleMention matches a "Điều <number>" mention anywhere in a query,
// case-insensitively.
var articleMention = regexp.MustCompile(`(?i)điều\s+(\d+)`)

// Result is one retrieved section with its similarity score.
type Result struct {
	Rank  int     `json:"rank"`
	Score float32 `json:"score"`
	ID    string  `json:"id"`
	Path  string  `json:"path"`
	Text  string  `json:"text,omitempty"`
}

// Retrieval is the output of one query: ranked vector-search results and
// the ordered context list for the generator. When the query names an
// article directly, its text is first in Contexts, ahead of the
// vector-search hits; it does not replace them.
type Retrieval struct {
	Results  []Result
	Contexts []string
}

// Retriever answers queries against a persisted index using an
// embedding provider. The provider must match the one that built the
// index; a mismatch is warned about, not rejected, since the stored
// vectors remain searchable (just in a different embedding space).
type Retriever struct {
	provider embedding.Provider
	indexDir string
}

// New creates a retriever over the index in indexDir.
func New(provider embedding.Provider, indexDir string) *Retriever {
	return &Retriever{provider: provider, indexDir: indexDir}
}

// Retrieve embeds the query, searches for the topK nearest sections and
// joins each hit back to its corpus file. A read failure for one hit
// degrades to an empty text field for that hit only.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]Result, error) {
	idx, err := index.Load(r.indexDir)
	if err != nil {
		return nil, err
	}
	return r.search(ctx, idx, query, topK)
}

// Query runs the full retrieval step: direct article lookup first, then
// vector search, producing the ordered context list for the generator.
func (r *Retriever) Query(ctx context.Context, query string, topK int) (*Retrieval, error) {
	idx, err := index.Load(r.indexDir)
	if err != nil {
		return nil, err
	}

	ret := &Retrieval{}
	if text, ok := directLookup(idx, query); ok {
		logger.Debug("direct lookup hit for query %q", query)
		ret.Contexts = append(ret.Contexts, text)
	}

	results, err := r.search(ctx, idx, query, topK)
	if err != nil {
		return nil, err
	}
	ret.Results = results
	for _, res := range results {
		ret.Contexts = append(ret.Contexts, res.Text)
	}

	return ret, nil
}

func (r *Retriever) search(ctx context.Context, idx *index.Index, query string, topK int) ([]Result, error) {
	if idx.ModelName != r.provider.ModelName() {
		logger.Warn("index was built with model %q but querying with %q; similarity scores may be meaningless",
			idx.ModelName, r.provider.ModelName())
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	vector, err := embedding.EmbedOne(ctx, r.provider, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	index.Normalize(vector)

	hits := idx.Search(vector, topK)
	logger.Debug("vector search returned %d hits", len(hits))

	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		if h.Row < 0 || h.Row >= idx.Rows() {
			continue
		}
		doc := idx.Docs[h.Row]

		text, err := corpus.ReadDocument(doc.Path)
		if err != nil {
			logger.Debug("reading %s: %v", doc.Path, err)
			text = ""
		}

		results = append(results, Result{
			Rank:  len(results) + 1,
			Score: h.Score,
			ID:    doc.ID,
			Path:  doc.Path,
			Text:  text,
		})
	}

	return results, nil
}

// directLookup resolves an explicit "Điều <n>" mention in the query to
// the corpus file whose id contains the sanitized article name. Metadata
// order is scan order; first match wins. No match, or an unreadable
// file, is a silent no-op.
func directLookup(idx *index.Index, query string) (string, bool) {
	m := articleMention.FindStringSubmatch(query)
	if m == nil {
		return "", false
	}

	target := splitter.SanitizeID(splitter.HeadingKeyword+" "+m[1]) + corpus.FileExt
	for _, doc := range idx.Docs {
		id := strings.ToLower(doc.ID)
		if id != target && !strings.Contains(id, target) {
			continue
		}
		text, err := corpus.ReadDocument(doc.Path)
		if err != nil || text == "" {
			return "", false
		}
		return text, true
	}
	return "", false
}
