package normalisers

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
	"github.com/custodia-labs/phenoage-cli/internal/core/ports/driven"
	"github.com/custodia-labs/phenoage-cli/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// Registry maps file extensions and MIME types to normalisers.
// It is filled once at startup and read-only afterwards.
type Registry struct {
	byExtension map[string]driven.Normaliser
	byMIMEType  map[string]driven.Normaliser
}

// NewRegistry creates an empty normaliser registry.
func NewRegistry() *Registry {
	return &Registry{
		byExtension: make(map[string]driven.Normaliser),
		byMIMEType:  make(map[string]driven.Normaliser),
	}
}

// Register adds a normaliser for all of its extensions and MIME types.
func (r *Registry) Register(n driven.Normaliser) {
	for _, ext := range n.SupportedExtensions() {
		r.byExtension[strings.ToLower(ext)] = n
	}
	for _, mt := range n.SupportedMIMETypes() {
		r.byMIMEType[mt] = n
	}
}

// SupportedExtensions returns every registered extension, sorted.
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.byExtension))
	for ext := range r.byExtension {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Normalise converts a report to text. A known extension decides the
// format; otherwise the first bytes are sniffed.
func (r *Registry) Normalise(ctx context.Context, name string, data []byte) (string, error) {
	n, how := r.lookup(name, data)
	if n == nil {
		return "", fmt.Errorf("%w: cannot read %s as a report (%s)", domain.ErrUnsupportedFormat, displayName(name), how)
	}
	logger.Debug("Reading %s as %s", displayName(name), how)
	return n.Normalise(ctx, data)
}

// lookup returns the normaliser for a report and a short description of
// how it was chosen.
func (r *Registry) lookup(name string, data []byte) (driven.Normaliser, string) {
	if name != "" && name != "-" {
		ext := strings.ToLower(filepath.Ext(name))
		if n, ok := r.byExtension[ext]; ok {
			return n, ext
		}
	}

	mediaType, _, err := mime.ParseMediaType(http.DetectContentType(data))
	if err != nil {
		return nil, "unknown content"
	}
	return r.byMIMEType[mediaType], mediaType
}

func displayName(name string) string {
	if name == "" || name == "-" {
		return "stdin"
	}
	return name
}
