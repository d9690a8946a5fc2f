// Package domain defines the core business entities for phenoage.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Biomarker: One of the ten canonical PhenoAge inputs
//   - BiomarkerPanel: A complete set of concrete input values
//   - Extraction: Optional values found in a lab report
//   - PhenoAgeResult: The phenotypic age estimate
//
// It also holds the Levine PhenoAge formula (CalculatePhenoAge), which is a
// pure function with no state and no I/O.
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
