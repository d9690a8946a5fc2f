package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBiomarkerPanel_Value(t *testing.T) {
	p := referencePanel()

	assert.Equal(t, 4.0, p.Value(BiomarkerAlbumin))
	assert.Equal(t, 0.2, p.Value(BiomarkerCRP))
	assert.Equal(t, 13.0, p.Value(BiomarkerRedCellDistribution))
	assert.Equal(t, 50.0, p.Value(BiomarkerAge))
	assert.Zero(t, p.Value(Biomarker("unknown")))
}

func TestNewExtraction_AllAbsent(t *testing.T) {
	e := NewExtraction()

	assert.Len(t, e, 10)
	assert.Equal(t, AllBiomarkers(), e.Missing())
	assert.False(t, e.IsComplete())
}

func TestExtraction_SetGetClear(t *testing.T) {
	e := NewExtraction()

	e.Set(BiomarkerGlucose, 90)
	v, ok := e.Get(BiomarkerGlucose)
	assert.True(t, ok)
	assert.Equal(t, 90.0, v)

	e.Clear(BiomarkerGlucose)
	_, ok = e.Get(BiomarkerGlucose)
	assert.False(t, ok)

	e.Set(Biomarker("hemoglobin"), 14)
	assert.Len(t, e, 10, "unknown biomarkers must not be added")
}

func TestExtraction_Panel(t *testing.T) {
	t.Run("complete extraction resolves", func(t *testing.T) {
		e := ExtractionFromPanel(referencePanel())

		p, err := e.Panel()

		require.NoError(t, err)
		assert.Equal(t, referencePanel(), p)
	})

	t.Run("missing values are reported", func(t *testing.T) {
		e := ExtractionFromPanel(referencePanel())
		e.Clear(BiomarkerAge)
		e.Clear(BiomarkerCRP)

		_, err := e.Panel()

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrIncompletePanel)
		assert.Contains(t, err.Error(), "c_reactive_protein, age")
	})
}

func TestExtraction_WithAge(t *testing.T) {
	t.Run("fills absent age", func(t *testing.T) {
		e := ExtractionFromPanel(referencePanel())
		e.Clear(BiomarkerAge)

		filled := e.WithAge(61)

		age, ok := filled.Get(BiomarkerAge)
		assert.True(t, ok)
		assert.Equal(t, 61.0, age)
		_, ok = e.Get(BiomarkerAge)
		assert.False(t, ok, "original must not be mutated")
	})

	t.Run("keeps extracted age", func(t *testing.T) {
		e := ExtractionFromPanel(referencePanel())

		filled := e.WithAge(61)

		age, _ := filled.Get(BiomarkerAge)
		assert.Equal(t, 50.0, age)
	})
}

func TestExtraction_Merge(t *testing.T) {
	base := NewExtraction()
	base.Set(BiomarkerAlbumin, 4.0)
	base.Set(BiomarkerGlucose, 90)

	override := NewExtraction()
	override.Set(BiomarkerGlucose, 101)
	override.Set(BiomarkerAge, 40)

	merged := base.Merge(override)

	albumin, _ := merged.Get(BiomarkerAlbumin)
	glucose, _ := merged.Get(BiomarkerGlucose)
	age, _ := merged.Get(BiomarkerAge)
	assert.Equal(t, 4.0, albumin)
	assert.Equal(t, 101.0, glucose)
	assert.Equal(t, 40.0, age)

	original, _ := base.Get(BiomarkerGlucose)
	assert.Equal(t, 90.0, original)
}

func TestExtraction_Clone(t *testing.T) {
	e := NewExtraction()
	e.Set(BiomarkerAlbumin, 4.0)

	c := e.Clone()
	c.Set(BiomarkerAlbumin, 5.0)

	v, _ := e.Get(BiomarkerAlbumin)
	assert.Equal(t, 4.0, v)
}

func TestExtraction_MarshalJSON(t *testing.T) {
	e := NewExtraction()
	e.Set(BiomarkerAlbumin, 4.5)

	data, err := json.Marshal(e)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Len(t, decoded, 10)
	assert.Equal(t, 4.5, decoded["albumin"])
	assert.Contains(t, decoded, "age")
	assert.Nil(t, decoded["age"])
}
