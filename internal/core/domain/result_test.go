package domain

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhenoAgeResult_String(t *testing.T) {
	assert.Equal(t, "42.06 years", PhenoAgeResult{Years: 42.06297990326768}.String())
	assert.Equal(t, "0.00 years", PhenoAgeResult{}.String())
}

func TestResultMessage(t *testing.T) {
	msg := ResultMessage(PhenoAgeResult{Years: 38.4567})
	assert.Equal(t, "Your phenoage is: 38.46 years", msg)
}

func TestPresentError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"extraction", fmt.Errorf("%w: bad json", ErrExtractionFailed), MessageExtractionFailed},
		{"incomplete", fmt.Errorf("%w: missing age", ErrIncompletePanel), MessageIncomplete},
		{"llm", ErrLLMUnavailable, MessageLLMUnavailable},
		{"calculation", ErrDegenerateComplement, "Calculation failed: " + ErrDegenerateComplement.Error()},
		{"other", errors.New("disk full"), "disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PresentError(tt.err))
		})
	}
}

func TestAssessment_Missing(t *testing.T) {
	var nilAssessment *Assessment
	assert.Equal(t, AllBiomarkers(), nilAssessment.Missing())

	e := ExtractionFromPanel(referencePanel())
	e.Clear(BiomarkerAge)
	a := &Assessment{Extraction: e}
	assert.Equal(t, []Biomarker{BiomarkerAge}, a.Missing())
}

func TestDefaultExtractionPrompt_ListsEveryBiomarker(t *testing.T) {
	prompt := DefaultExtractionPrompt()

	for _, b := range AllBiomarkers() {
		assert.Contains(t, prompt, "- "+b.String()+" (")
	}
	assert.Contains(t, prompt, "null")
	assert.NotContains(t, prompt, "%s", "prompt must not need formatting")
}

func TestValidateAge(t *testing.T) {
	for _, age := range []float64{0, 30, 64.5, 120} {
		assert.NoError(t, ValidateAge(age), "age %g", age)
	}
	for _, age := range []float64{-1, 120.5, 300, math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.ErrorIs(t, ValidateAge(age), ErrInvalidInput, "age %g", age)
	}
}
