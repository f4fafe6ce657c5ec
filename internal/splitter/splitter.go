// Package splitter partitions legal document text into per-article sections.
package splitter

import (
	"regexp"
	"strings"
)

// HeadingKeyword is the article heading keyword for Vietnamese legal text.
const HeadingKeyword = "Điều"

// headingPattern matches an article heading line: optional leading
// whitespace, the heading keyword, whitespace, then the article number.
var headingPattern = regexp.MustCompile(`^\s*Điều\s+(\d+)\b`)

// sanitizePattern matches runs of characters that are not letters,
// digits, underscores or hyphens.
var sanitizePattern = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)

// Section is a contiguous run of document lines belonging to one article.
// The heading line itself is the first line.
type Section struct {
	ID    string   // e.g. "Điều 5"
	Lines []string // raw lines, heading included, per-line whitespace preserved
}

// Text returns the section lines joined and trimmed of surrounding whitespace.
func (s Section) Text() string {
	return strings.TrimSpace(strings.Join(s.Lines, "\n"))
}

// MatchHeading reports whether a line is an article heading and returns
// the captured article number.
func MatchHeading(line string) (string, bool) {
	m := headingPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Split scans lines in order and partitions them into sections, one per
// heading match. Lines before the first heading are dropped. A heading
// closes the currently open section before opening a new one, so emitted
// sections cover the input from the first heading to the end, in order.
// Duplicate or non-sequential article numbers pass through unmodified.
func Split(lines []string) []Section {
	var sections []Section
	var currentID string
	var currentLines []string

	for _, raw := range lines {
		line := strings.TrimRight(raw, "\n")
		if number, ok := MatchHeading(line); ok {
			if currentID != "" {
				sections = append(sections, Section{ID: currentID, Lines: currentLines})
			}
			currentID = HeadingKeyword + " " + number
			currentLines = []string{line}
			continue
		}
		if currentID != "" {
			currentLines = append(currentLines, line)
		}
	}

	if currentID != "" {
		sections = append(sections, Section{ID: currentID, Lines: currentLines})
	}

	return sections
}

// SanitizeID converts a section ID into a filesystem-safe name by
// lower-casing it and collapsing every run of characters that are neither
// letters, digits, underscores nor hyphens into a single underscore.
func SanitizeID(id string) string {
	sanitized := sanitizePattern.ReplaceAllString(strings.ToLower(id), "_")
	return strings.Trim(sanitized, "_")
}
