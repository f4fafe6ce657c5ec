// Package corpus persists split sections as per-article text files and
// reads them back in canonical order for indexing.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hmnguyen/lexrag/internal/splitter"
)

// FileExt is the extension for corpus files.
const FileExt = ".txt"

// Document is a corpus entry read back from disk.
type Document struct {
	ID      string // filename, e.g. "điều_5.txt"
	Path    string
	Content string
}

// WriteSections writes each section to dir as a UTF-8 text file named by
// the sanitized section ID, creating dir if needed. Sections with no
// non-whitespace content are discarded. When two sections sanitize to the
// same filename, later ones get a numeric suffix instead of overwriting.
// Returns the written filenames in write order.
func WriteSections(sections []splitter.Section, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	used := make(map[string]bool)
	var written []string
	for _, s := range sections {
		text := s.Text()
		if text == "" {
			continue
		}

		base := splitter.SanitizeID(s.ID)
		name := base + FileExt
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s_%d%s", base, n, FileExt)
		}
		used[name] = true

		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(text+"\n"), 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", name, err)
		}
		written = append(written, name)
	}

	return written, nil
}

// ReadDocuments reads every corpus file in dir in lexicographic filename
// order. This order is the canonical corpus order used by the index.
// Entries whose content is empty after trimming are dropped so they never
// reach the embedding step.
func ReadDocuments(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), FileExt) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var docs []Document
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		content := strings.TrimSpace(string(data))
		if content == "" {
			continue
		}
		docs = append(docs, Document{ID: name, Path: path, Content: content})
	}

	return docs, nil
}

// ReadDocument reads a single corpus file and returns its trimmed content.
func ReadDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
