// Package index implements a flat inner-product nearest-neighbor index
// over L2-normalized embeddings, persisted alongside an ordered metadata
// table.
package index

import (
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
)

// Errors returned by index operations.
var (
	ErrIndexNotFound = errors.New("vector index not found")
	ErrInconsistent  = errors.New("index and metadata row counts diverge")
)

const (
	// IndexFileName is the name of the persisted index file.
	IndexFileName = "index.gob"

	// MetadataFileName is the name of the ordered metadata table.
	// Array position i corresponds to index row i.
	MetadataFileName = "metadata.json"

	// CurrentIndexVersion is the format version for compatibility checking.
	CurrentIndexVersion = 1
)

// Document pairs an indexed vector with its metadata at construction
// time, so positional drift between index rows and metadata records is
// structurally impossible.
type Document struct {
	ID     string
	Path   string
	Vector []float32 // L2-normalized at build time
}

// Meta is one record of the persisted metadata table.
type Meta struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// Index is a flat exhaustive inner-product index. Row i is Docs[i].
type Index struct {
	Version    int
	Provider   string    // embedding provider that built the index
	ModelName  string    // embedding model that built the index
	Dimensions int
	CreatedAt  time.Time
	Docs       []Document
}

// Build constructs an index from parallel id/path/vector sequences, all
// in corpus order. Every vector is L2-normalized into the stored copy
// before insertion. All vectors must share one dimension.
func Build(provider, modelName string, ids, paths []string, vectors [][]float32) (*Index, error) {
	if len(ids) != len(vectors) || len(paths) != len(vectors) {
		return nil, fmt.Errorf("%w: %d ids, %d paths, %d vectors", ErrInconsistent, len(ids), len(paths), len(vectors))
	}
	if len(vectors) == 0 {
		return nil, errors.New("cannot build an index from zero vectors")
	}

	dims := len(vectors[0])
	idx := &Index{
		Version:    CurrentIndexVersion,
		Provider:   provider,
		ModelName:  modelName,
		Dimensions: dims,
		CreatedAt:  time.Now(),
		Docs:       make([]Document, 0, len(vectors)),
	}

	for i, v := range vectors {
		if len(v) != dims {
			return nil, fmt.Errorf("vector %d has %d dimensions, want %d", i, len(v), dims)
		}
		stored := make([]float32, dims)
		copy(stored, v)
		Normalize(stored)
		idx.Docs = append(idx.Docs, Document{ID: ids[i], Path: paths[i], Vector: stored})
	}

	return idx, nil
}

// Rows returns the number of indexed vectors.
func (idx *Index) Rows() int {
	return len(idx.Docs)
}

// Metadata returns the ordered metadata table, record i for row i.
func (idx *Index) Metadata() []Meta {
	meta := make([]Meta, len(idx.Docs))
	for i, d := range idx.Docs {
		meta[i] = Meta{ID: d.ID, Path: d.Path}
	}
	return meta
}

// Save persists the index and its metadata table as a pair in dir. The
// metadata file is an ordered JSON array whose position matches the
// index row order.
func (idx *Index) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	if err := writeGob(filepath.Join(dir, IndexFileName), idx); err != nil {
		return err
	}

	metaPath := filepath.Join(dir, MetadataFileName)
	f, err := os.Create(metaPath)
	if err != nil {
		return fmt.Errorf("creating metadata file: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(idx.Metadata()); err != nil {
		f.Close()
		return fmt.Errorf("encoding metadata: %w", err)
	}
	return f.Close()
}

// writeGob encodes v to path via a temp file and rename for atomicity.
func writeGob(path string, v any) error {
	tempPath := path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	enc := gob.NewEncoder(f)
	if err := enc.Encode(v); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("encoding index: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("closing file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// Load reads the index/metadata pair from dir. Returns ErrIndexNotFound
// if either artifact is missing and ErrInconsistent if the metadata
// table length does not match the index row count.
func Load(dir string) (*Index, error) {
	f, err := os.Open(filepath.Join(dir, IndexFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrIndexNotFound
		}
		return nil, fmt.Errorf("opening index file: %w", err)
	}
	defer f.Close()

	var idx Index
	if err := gob.NewDecoder(f).Decode(&idx); err != nil {
		return nil, fmt.Errorf("decoding index: %w", err)
	}

	if idx.Version != CurrentIndexVersion {
		return nil, fmt.Errorf("unsupported index version %d, want %d (rebuild with 'lexrag embed')",
			idx.Version, CurrentIndexVersion)
	}

	metaData, err := os.ReadFile(filepath.Join(dir, MetadataFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrIndexNotFound
		}
		return nil, fmt.Errorf("reading metadata file: %w", err)
	}

	var meta []Meta
	if err := json.Unmarshal(metaData, &meta); err != nil {
		return nil, fmt.Errorf("parsing metadata: %w", err)
	}
	if len(meta) != len(idx.Docs) {
		return nil, fmt.Errorf("%w: %d metadata records, %d index rows", ErrInconsistent, len(meta), len(idx.Docs))
	}

	return &idx, nil
}

// Normalize scales v to unit L2 length in place. The zero vector is left
// unchanged.
func Normalize(v []float32) {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range v {
		v[i] *= inv
	}
}
