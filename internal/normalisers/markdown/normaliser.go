// Package markdown provides a Normaliser for reports written in Markdown.
// Formatting is removed while code blocks and tables keep their text, since
// copied lab results often end up in either.
package markdown

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/phenoage-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown reports.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns the file extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Normalise returns the report with Markdown syntax stripped.
func (n *Normaliser) Normalise(_ context.Context, data []byte) (string, error) {
	return stripMarkdown(string(data)), nil
}

var (
	codeFence      = regexp.MustCompile("(?m)^\\s*(```|~~~).*$")
	inlineCode     = regexp.MustCompile("`([^`]+)`")
	images         = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	links          = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings       = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	emphasis       = regexp.MustCompile(`(\*\*|__|\*|\b_)([^*_\n]+)(\*\*|__|\*|_\b)`)
	blockquote     = regexp.MustCompile(`(?m)^>\s?`)
	hr             = regexp.MustCompile(`(?m)^\s*([-*_]\s*){3,}$`)
	tableSeparator = regexp.MustCompile(`(?m)^\s*\|?\s*:?-{3,}:?\s*(\|\s*:?-{3,}:?\s*)*\|?\s*$`)
	listMarkers    = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	numberedList   = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	multiSpaces    = regexp.MustCompile(`[ \t]+`)
)

// stripMarkdown removes Markdown syntax and returns one trimmed line per
// non-empty source line. Table rows become space-separated cells.
func stripMarkdown(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	content = codeFence.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = images.ReplaceAllString(content, "")
	content = links.ReplaceAllString(content, "$1")
	content = headings.ReplaceAllString(content, "")
	content = blockquote.ReplaceAllString(content, "")

	// Separators go before list markers: "---" would otherwise read as a list item
	content = tableSeparator.ReplaceAllString(content, "")
	content = hr.ReplaceAllString(content, "")
	content = listMarkers.ReplaceAllString(content, "")
	content = numberedList.ReplaceAllString(content, "")
	content = emphasis.ReplaceAllString(content, "$2")

	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.ReplaceAll(line, "|", " ")
		line = strings.TrimSpace(multiSpaces.ReplaceAllString(line, " "))
		if line != "" {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}
