// Package pdf extracts text from PDF documents.
package pdf

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPages extracts the plain text of every page of a PDF,
// returning one string per page in page order. Pages whose text
// cannot be decoded are returned as empty strings rather than
// aborting the whole extraction.
func ExtractPages(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}

	return pages, nil
}

// ExtractLines extracts the full document text and splits it into lines.
// Pages are joined with a newline, matching the page boundaries in the
// source document.
func ExtractLines(path string) ([]string, error) {
	pages, err := ExtractPages(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.Join(pages, "\n"), "\n"), nil
}
