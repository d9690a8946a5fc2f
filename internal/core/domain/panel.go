package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BiomarkerPanel is the complete, concrete input to the PhenoAge calculation.
// Values are in the units reported by Biomarker.Unit.
type BiomarkerPanel struct {
	Albumin                       float64 `json:"albumin"`
	Creatinine                    float64 `json:"creatinine"`
	Glucose                       float64 `json:"glucose"`
	CReactiveProtein              float64 `json:"c_reactive_protein"`
	LymphocytePercent             float64 `json:"lymphocyte_percent"`
	MeanCellVolume                float64 `json:"mean_cell_volume"`
	RedBloodCellDistributionWidth float64 `json:"red_blood_cell_distribution_width"`
	AlkalinePhosphatase           float64 `json:"alkaline_phosphatase"`
	WhiteBloodCellCount           float64 `json:"white_blood_cell_count"`
	Age                           float64 `json:"age"`
}

// Value returns the panel value for the given biomarker.
// Unknown biomarkers return 0.
func (p BiomarkerPanel) Value(b Biomarker) float64 {
	switch b {
	case BiomarkerAlbumin:
		return p.Albumin
	case BiomarkerCreatinine:
		return p.Creatinine
	case BiomarkerGlucose:
		return p.Glucose
	case BiomarkerCRP:
		return p.CReactiveProtein
	case BiomarkerLymphocytePercent:
		return p.LymphocytePercent
	case BiomarkerMeanCellVolume:
		return p.MeanCellVolume
	case BiomarkerRedCellDistribution:
		return p.RedBloodCellDistributionWidth
	case BiomarkerAlkalinePhosphatase:
		return p.AlkalinePhosphatase
	case BiomarkerWhiteBloodCellCount:
		return p.WhiteBloodCellCount
	case BiomarkerAge:
		return p.Age
	default:
		return 0
	}
}

// Extraction is the extractor-side view of a panel: every canonical biomarker
// is present as a key, and a nil value marks a biomarker that was not found.
// It must be resolved with Panel before anything is calculated.
type Extraction map[Biomarker]*float64

// NewExtraction returns an Extraction with all ten keys marked absent.
func NewExtraction() Extraction {
	e := make(Extraction, len(AllBiomarkers()))
	for _, b := range AllBiomarkers() {
		e[b] = nil
	}
	return e
}

// ExtractionFromPanel returns an Extraction with every value present.
func ExtractionFromPanel(p BiomarkerPanel) Extraction {
	e := NewExtraction()
	for _, b := range AllBiomarkers() {
		e.Set(b, p.Value(b))
	}
	return e
}

// Set records a value for a biomarker. Unknown biomarkers are ignored.
func (e Extraction) Set(b Biomarker, v float64) {
	if !b.IsValid() {
		return
	}
	e[b] = &v
}

// Clear marks a biomarker as absent.
func (e Extraction) Clear(b Biomarker) {
	if b.IsValid() {
		e[b] = nil
	}
}

// Get returns the value for a biomarker and whether it is present.
func (e Extraction) Get(b Biomarker) (float64, bool) {
	v := e[b]
	if v == nil {
		return 0, false
	}
	return *v, true
}

// Missing returns the absent biomarkers in panel order.
func (e Extraction) Missing() []Biomarker {
	var missing []Biomarker
	for _, b := range AllBiomarkers() {
		if e[b] == nil {
			missing = append(missing, b)
		}
	}
	return missing
}

// IsComplete returns true if all ten biomarkers are present.
func (e Extraction) IsComplete() bool {
	return len(e.Missing()) == 0
}

// Clone returns a deep copy with all ten keys.
func (e Extraction) Clone() Extraction {
	c := NewExtraction()
	for _, b := range AllBiomarkers() {
		if v, ok := e.Get(b); ok {
			c.Set(b, v)
		}
	}
	return c
}

// Merge returns a copy of e where every value present in other replaces the
// value in e. Absent values in other leave e untouched.
func (e Extraction) Merge(other Extraction) Extraction {
	c := e.Clone()
	for _, b := range AllBiomarkers() {
		if v, ok := other.Get(b); ok {
			c.Set(b, v)
		}
	}
	return c
}

// WithAge returns a copy with age filled in when it is absent.
// An age already present is kept as is.
func (e Extraction) WithAge(age float64) Extraction {
	c := e.Clone()
	if _, ok := c.Get(BiomarkerAge); !ok {
		c.Set(BiomarkerAge, age)
	}
	return c
}

// Panel resolves the extraction into a concrete BiomarkerPanel.
// Returns ErrIncompletePanel naming the absent biomarkers if any are missing.
func (e Extraction) Panel() (BiomarkerPanel, error) {
	if missing := e.Missing(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, b := range missing {
			names[i] = b.String()
		}
		return BiomarkerPanel{}, fmt.Errorf("%w: missing %s", ErrIncompletePanel, strings.Join(names, ", "))
	}

	get := func(b Biomarker) float64 {
		v, _ := e.Get(b)
		return v
	}
	return BiomarkerPanel{
		Albumin:                       get(BiomarkerAlbumin),
		Creatinine:                    get(BiomarkerCreatinine),
		Glucose:                       get(BiomarkerGlucose),
		CReactiveProtein:              get(BiomarkerCRP),
		LymphocytePercent:             get(BiomarkerLymphocytePercent),
		MeanCellVolume:                get(BiomarkerMeanCellVolume),
		RedBloodCellDistributionWidth: get(BiomarkerRedCellDistribution),
		AlkalinePhosphatase:           get(BiomarkerAlkalinePhosphatase),
		WhiteBloodCellCount:           get(BiomarkerWhiteBloodCellCount),
		Age:                           get(BiomarkerAge),
	}, nil
}

// MarshalJSON renders all ten keys, absent values as null.
func (e Extraction) MarshalJSON() ([]byte, error) {
	out := make(map[string]*float64, len(AllBiomarkers()))
	for _, b := range AllBiomarkers() {
		if v, ok := e.Get(b); ok {
			out[b.String()] = &v
		} else {
			out[b.String()] = nil
		}
	}
	return json.Marshal(out)
}
