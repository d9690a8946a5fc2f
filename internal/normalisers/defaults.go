package normalisers

import (
	"github.com/custodia-labs/phenoage-cli/internal/normalisers/docx"
	"github.com/custodia-labs/phenoage-cli/internal/normalisers/eml"
	"github.com/custodia-labs/phenoage-cli/internal/normalisers/html"
	"github.com/custodia-labs/phenoage-cli/internal/normalisers/markdown"
	"github.com/custodia-labs/phenoage-cli/internal/normalisers/plaintext"
)

// RegisterDefaults registers all built-in report normalisers.
// Call this during application initialisation.
func RegisterDefaults(r *Registry) {
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(eml.New())
	r.Register(docx.New())
}

// Default returns a registry with every built-in normaliser.
func Default() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}
