// Package docx provides a Normaliser for lab reports saved as Word documents.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
	"github.com/custodia-labs/phenoage-cli/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

const documentPart = "word/document.xml"

// Normaliser handles DOCX reports.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns the file extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".docx"}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
}

// Normalise returns the paragraph and table text of a DOCX report.
func (n *Normaliser) Normalise(_ context.Context, data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: not a docx archive: %v", domain.ErrInvalidInput, err)
	}

	for _, file := range reader.File {
		if file.Name != documentPart {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("%w: open %s: %v", domain.ErrInvalidInput, documentPart, err)
		}
		defer rc.Close()

		return parseDocumentXML(rc)
	}

	return "", fmt.Errorf("%w: docx has no %s", domain.ErrInvalidInput, documentPart)
}

// parseDocumentXML walks word/document.xml token by token. Paragraphs end a
// line, except inside table cells where cells of one row share a line.
func parseDocumentXML(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		lines  []string
		line   strings.Builder
		cell   strings.Builder
		inText bool
		depth  int // table cell nesting
	)

	flush := func() {
		if text := strings.TrimSpace(line.String()); text != "" {
			lines = append(lines, text)
		}
		line.Reset()
	}
	current := func() *strings.Builder {
		if depth > 0 {
			return &cell
		}
		return &line
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: malformed %s: %v", domain.ErrInvalidInput, documentPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				current().WriteString(" ")
			case "br", "cr":
				if depth > 0 {
					cell.WriteString(" ")
				} else {
					flush()
				}
			case "tc":
				depth++
				cell.Reset()
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if depth > 0 {
					cell.WriteString(" ")
				} else {
					flush()
				}
			case "tc":
				depth--
				if text := strings.Join(strings.Fields(cell.String()), " "); text != "" {
					if line.Len() > 0 {
						line.WriteString(" ")
					}
					line.WriteString(text)
				}
				cell.Reset()
			case "tr":
				flush()
			}
		case xml.CharData:
			if inText {
				current().Write(t)
			}
		}
	}
	flush()

	return strings.Join(lines, "\n"), nil
}
