package domain

import (
	"fmt"
	"math"
)

// Levine PhenoAge model constants. These are the published values and must
// not be rounded or re-derived.
const (
	// Unit conversions from conventional to SI units.
	albuminGPerLPerGPerDL      = 10.0
	creatinineUmolPerLPerMgPer = 88.4
	glucoseMmolPerLPerMgPerDL  = 0.0555
	crpMgPerDLPerMgPerL        = 0.1

	// Linear predictor.
	phenoIntercept          = -19.9067
	coefAlbumin             = -0.0336
	coefCreatinine          = 0.0095
	coefGlucose             = 0.1953
	coefLnCRP               = 0.0954
	coefLymphocytePercent   = -0.012
	coefMeanCellVolume      = 0.0268
	coefRedCellDistribution = 0.3306
	coefAlkalinePhosphatase = 0.0019
	coefWhiteBloodCellCount = 0.0554
	coefAge                 = 0.0804

	// Gompertz mortality score over a 120 month horizon.
	gompertzGamma = 0.0076927
	horizonMonths = 120

	// Mortality score to phenotypic age.
	ageIntercept = 141.50225
	ageLogScale  = -0.00553
	ageDivisor   = 0.09165

	// Final rescale.
	rescaleFactor = 1.28047
	rescaleRate   = 0.0344329
	rescaleOffset = -182.344
)

// CalculatePhenoAge computes the phenotypic age in years for a complete panel.
//
// It fails with ErrNonPositiveCRP before any other work when CRP is not
// strictly positive, with ErrDegenerateMortalityScore when the mortality score
// is not positive, and with ErrDegenerateComplement when one minus the
// mortality score is not positive. Inputs are not otherwise range checked;
// NaN inputs give undefined results.
func CalculatePhenoAge(p BiomarkerPanel) (float64, error) {
	if !(p.CReactiveProtein > 0) {
		return 0, fmt.Errorf("%w: got %g", ErrNonPositiveCRP, p.CReactiveProtein)
	}

	albuminGL := p.Albumin * albuminGPerLPerGPerDL
	creatinineUmolL := p.Creatinine * creatinineUmolPerLPerMgPer
	glucoseMmolL := p.Glucose * glucoseMmolPerLPerMgPerDL
	crpLn := math.Log(p.CReactiveProtein * crpMgPerDLPerMgPerL)

	// Products are rounded individually; fused multiply-add would change
	// the low bits of the sum.
	terms := [...]float64{
		float64(albuminGL * coefAlbumin),
		float64(creatinineUmolL * coefCreatinine),
		float64(glucoseMmolL * coefGlucose),
		float64(crpLn * coefLnCRP),
		float64(p.LymphocytePercent * coefLymphocytePercent),
		float64(p.MeanCellVolume * coefMeanCellVolume),
		float64(p.RedBloodCellDistributionWidth * coefRedCellDistribution),
		float64(p.AlkalinePhosphatase * coefAlkalinePhosphatase),
		float64(p.WhiteBloodCellCount * coefWhiteBloodCellCount),
		float64(p.Age * coefAge),
	}
	var xb float64
	for _, t := range terms {
		xb += t
	}
	xb += phenoIntercept

	// Typed locals keep gamma*t a float64 product rather than an exact
	// constant expression.
	gamma, months := float64(gompertzGamma), float64(horizonMonths)
	mortScore := 1 - math.Exp(-math.Exp(xb)*(math.Exp(gamma*months)-1)/gamma)
	if mortScore <= 0 {
		return 0, fmt.Errorf("%w: linear predictor %g", ErrDegenerateMortalityScore, xb)
	}
	if 1-mortScore <= 0 {
		return 0, fmt.Errorf("%w: linear predictor %g", ErrDegenerateComplement, xb)
	}

	ptypicAge := ageIntercept + math.Log(ageLogScale*math.Log(1-mortScore))/ageDivisor

	return ptypicAge / (1 + float64(rescaleFactor*math.Exp(rescaleRate*(rescaleOffset+ptypicAge)))), nil
}
