// Package shared holds rendering helpers used by more than one view.
package shared

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
)

// Extraction renders one line per biomarker, marking absent values.
func Extraction(s *styles.Styles, e domain.Extraction) string {
	var b strings.Builder
	for _, bm := range domain.AllBiomarkers() {
		b.WriteString(s.Label.Render(bm.Description()))
		if v, ok := e.Get(bm); ok {
			b.WriteString(s.Normal.Render(fmt.Sprintf("%g %s", v, bm.Unit())))
		} else {
			b.WriteString(s.Warning.Render("not found"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Outcome renders a result line, or the user-facing message for err.
func Outcome(s *styles.Styles, result *domain.PhenoAgeResult, err error) string {
	if err != nil {
		return s.Error.Render(domain.PresentError(err))
	}
	if result == nil {
		return ""
	}
	return s.Result.Render(domain.ResultMessage(*result))
}
