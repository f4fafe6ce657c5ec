// Package generator produces grounded answers from a question and
// retrieved context passages.
package generator

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"
)

// ErrMissingAPIKey indicates the generation provider credential is
// absent. Returned before any network call is made.
var ErrMissingAPIKey = errors.New("generation API key not set")

// DefaultMaxContextChars caps the concatenated context handed to the
// model.
const DefaultMaxContextChars = 20000

// Generator produces an answer string for a question given ordered
// context passages, most relevant first.
type Generator interface {
	Generate(ctx context.Context, question string, contexts []string) (string, error)
}

// contextSeparator joins passages in the prompt context block.
const contextSeparator = "\n\n"

// FormatContext joins contexts under a character budget. Passages are
// kept whole, in order, while they fit; the first passage that would
// overflow is truncated to the remaining budget and everything after it
// is dropped. Truncation never splits a multi-byte rune, so the output
// is always valid UTF-8.
func FormatContext(contexts []string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxContextChars
	}

	var b strings.Builder
	for _, c := range contexts {
		if c == "" {
			continue
		}

		remaining := maxChars - b.Len()
		if b.Len() > 0 {
			remaining -= len(contextSeparator)
		}
		if remaining <= 0 {
			break
		}

		if b.Len() > 0 {
			b.WriteString(contextSeparator)
		}
		if len(c) > remaining {
			cut := remaining
			for cut > 0 && !utf8.RuneStart(c[cut]) {
				cut--
			}
			b.WriteString(c[:cut])
			break
		}
		b.WriteString(c)
	}

	return b.String()
}
