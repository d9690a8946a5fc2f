package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
)

func TestExtraction(t *testing.T) {
	e := domain.NewExtraction()
	e.Set(domain.BiomarkerAlbumin, 4.2)

	out := Extraction(styles.DefaultStyles(), e)

	assert.Contains(t, out, "4.2 g/dL")
	assert.Contains(t, out, "not found")
	assert.Contains(t, out, domain.BiomarkerAge.Description())
}

func TestOutcome(t *testing.T) {
	s := styles.DefaultStyles()

	assert.Contains(t, Outcome(s, &domain.PhenoAgeResult{Years: 42.06297990326768}, nil), "Your phenoage is: 42.06 years")
	assert.Contains(t, Outcome(s, nil, domain.ErrIncompletePanel), domain.MessageIncomplete)
	assert.Contains(t, Outcome(s, nil, errors.New("disk full")), "disk full")
	assert.Empty(t, Outcome(s, nil, nil))
}
