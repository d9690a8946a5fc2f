package domain

import "strings"

// Biomarker identifies one of the ten PhenoAge inputs by its canonical key.
type Biomarker string

// Canonical biomarker keys. The order of AllBiomarkers is the order used
// everywhere a panel is listed.
const (
	BiomarkerAlbumin             Biomarker = "albumin"
	BiomarkerCreatinine          Biomarker = "creatinine"
	BiomarkerGlucose             Biomarker = "glucose"
	BiomarkerCRP                 Biomarker = "c_reactive_protein"
	BiomarkerLymphocytePercent   Biomarker = "lymphocyte_percent"
	BiomarkerMeanCellVolume      Biomarker = "mean_cell_volume"
	BiomarkerRedCellDistribution Biomarker = "red_blood_cell_distribution_width"
	BiomarkerAlkalinePhosphatase Biomarker = "alkaline_phosphatase"
	BiomarkerWhiteBloodCellCount Biomarker = "white_blood_cell_count"
	BiomarkerAge                 Biomarker = "age"
)

// AllBiomarkers returns the ten canonical biomarkers in panel order.
func AllBiomarkers() []Biomarker {
	return []Biomarker{
		BiomarkerAlbumin,
		BiomarkerCreatinine,
		BiomarkerGlucose,
		BiomarkerCRP,
		BiomarkerLymphocytePercent,
		BiomarkerMeanCellVolume,
		BiomarkerRedCellDistribution,
		BiomarkerAlkalinePhosphatase,
		BiomarkerWhiteBloodCellCount,
		BiomarkerAge,
	}
}

// IsValid returns true if the biomarker is one of the canonical keys.
func (b Biomarker) IsValid() bool {
	switch b {
	case BiomarkerAlbumin, BiomarkerCreatinine, BiomarkerGlucose, BiomarkerCRP,
		BiomarkerLymphocytePercent, BiomarkerMeanCellVolume, BiomarkerRedCellDistribution,
		BiomarkerAlkalinePhosphatase, BiomarkerWhiteBloodCellCount, BiomarkerAge:
		return true
	default:
		return false
	}
}

// String returns the canonical key.
func (b Biomarker) String() string {
	return string(b)
}

// Unit returns the conventional unit the calculator expects for this biomarker.
func (b Biomarker) Unit() string {
	switch b {
	case BiomarkerAlbumin:
		return "g/dL"
	case BiomarkerCreatinine, BiomarkerGlucose:
		return "mg/dL"
	case BiomarkerCRP:
		return "mg/L"
	case BiomarkerLymphocytePercent, BiomarkerRedCellDistribution:
		return "%"
	case BiomarkerMeanCellVolume:
		return "fL"
	case BiomarkerAlkalinePhosphatase:
		return "U/L"
	case BiomarkerWhiteBloodCellCount:
		return "10^3 cells/µL"
	case BiomarkerAge:
		return "years"
	default:
		return ""
	}
}

// Description returns a human-readable label for the biomarker.
func (b Biomarker) Description() string {
	switch b {
	case BiomarkerAlbumin:
		return "Albumin"
	case BiomarkerCreatinine:
		return "Creatinine"
	case BiomarkerGlucose:
		return "Glucose"
	case BiomarkerCRP:
		return "C-reactive protein"
	case BiomarkerLymphocytePercent:
		return "Lymphocyte percent"
	case BiomarkerMeanCellVolume:
		return "Mean cell volume"
	case BiomarkerRedCellDistribution:
		return "Red cell distribution width"
	case BiomarkerAlkalinePhosphatase:
		return "Alkaline phosphatase"
	case BiomarkerWhiteBloodCellCount:
		return "White blood cell count"
	case BiomarkerAge:
		return "Age"
	default:
		return unknownDescription
	}
}

// biomarkerSynonyms maps normalised alternative names onto canonical keys.
var biomarkerSynonyms = map[string]Biomarker{
	"alb":           BiomarkerAlbumin,
	"serum_albumin": BiomarkerAlbumin,

	"creat":            BiomarkerCreatinine,
	"serum_creatinine": BiomarkerCreatinine,

	"fasting_glucose": BiomarkerGlucose,
	"glucose_fasting": BiomarkerGlucose,
	"blood_glucose":   BiomarkerGlucose,

	"crp":    BiomarkerCRP,
	"hs_crp": BiomarkerCRP,
	"hscrp":  BiomarkerCRP,

	"lymphocyte":          BiomarkerLymphocytePercent,
	"lymphocytes":         BiomarkerLymphocytePercent,
	"lymph":               BiomarkerLymphocytePercent,
	"lymphocyte_pct":      BiomarkerLymphocytePercent,
	"lymphocytes_percent": BiomarkerLymphocytePercent,

	"mcv":                     BiomarkerMeanCellVolume,
	"mean_corpuscular_volume": BiomarkerMeanCellVolume,

	"rdw":                         BiomarkerRedCellDistribution,
	"rdw_cv":                      BiomarkerRedCellDistribution,
	"red_cell_distribution_width": BiomarkerRedCellDistribution,

	"alp":      BiomarkerAlkalinePhosphatase,
	"alk_phos": BiomarkerAlkalinePhosphatase,

	"wbc":               BiomarkerWhiteBloodCellCount,
	"white_blood_cells": BiomarkerWhiteBloodCellCount,
	"white_cell_count":  BiomarkerWhiteBloodCellCount,
	"leukocytes":        BiomarkerWhiteBloodCellCount,

	"chronological_age": BiomarkerAge,
	"age_years":         BiomarkerAge,
}

// ParseBiomarker resolves a canonical key or a common synonym.
// Matching ignores case and treats spaces, dashes and dots as underscores.
func ParseBiomarker(name string) (Biomarker, bool) {
	key := normaliseBiomarkerName(name)
	if b := Biomarker(key); b.IsValid() {
		return b, true
	}
	b, ok := biomarkerSynonyms[key]
	return b, ok
}

func normaliseBiomarkerName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer(" ", "_", "-", "_", ".", "_", "%", "percent").Replace(name)
	for strings.Contains(name, "__") {
		name = strings.ReplaceAll(name, "__", "_")
	}
	return strings.Trim(name, "_")
}
