package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
)

// CalculateInput is the input schema for the calculate_phenoage tool.
type CalculateInput struct {
	Albumin                       float64 `json:"albumin" jsonschema:"albumin in g/dL"`
	Creatinine                    float64 `json:"creatinine" jsonschema:"creatinine in mg/dL"`
	Glucose                       float64 `json:"glucose" jsonschema:"fasting glucose in mg/dL"`
	CReactiveProtein              float64 `json:"c_reactive_protein" jsonschema:"C-reactive protein in mg/L, must be positive"`
	LymphocytePercent             float64 `json:"lymphocyte_percent" jsonschema:"lymphocytes as a percentage of white cells"`
	MeanCellVolume                float64 `json:"mean_cell_volume" jsonschema:"mean cell volume in fL"`
	RedBloodCellDistributionWidth float64 `json:"red_blood_cell_distribution_width" jsonschema:"red cell distribution width in percent"`
	AlkalinePhosphatase           float64 `json:"alkaline_phosphatase" jsonschema:"alkaline phosphatase in U/L"`
	WhiteBloodCellCount           float64 `json:"white_blood_cell_count" jsonschema:"white blood cell count in 10^3 cells/uL"`
	Age                           float64 `json:"age" jsonschema:"chronological age in years"`
}

// Panel converts the tool input to a domain panel.
func (in CalculateInput) Panel() domain.BiomarkerPanel {
	return domain.BiomarkerPanel{
		Albumin:                       in.Albumin,
		Creatinine:                    in.Creatinine,
		Glucose:                       in.Glucose,
		CReactiveProtein:              in.CReactiveProtein,
		LymphocytePercent:             in.LymphocytePercent,
		MeanCellVolume:                in.MeanCellVolume,
		RedBloodCellDistributionWidth: in.RedBloodCellDistributionWidth,
		AlkalinePhosphatase:           in.AlkalinePhosphatase,
		WhiteBloodCellCount:           in.WhiteBloodCellCount,
		Age:                           in.Age,
	}
}

// CalculateOutput is the output schema for the calculate_phenoage tool.
type CalculateOutput struct {
	PhenoAgeYears float64 `json:"phenoage_years"`
	Formatted     string  `json:"formatted"`
}

// ExtractInput is the input schema for the extract_lab_report tool.
type ExtractInput struct {
	Report string `json:"report" jsonschema:"the full text of the lab report"`
}

// ExtractOutput is the output schema for the extract_lab_report tool.
type ExtractOutput struct {
	Values  map[string]*float64 `json:"values"`
	Missing []string            `json:"missing"`
}

// AssessInput is the input schema for the assess_lab_report tool.
type AssessInput struct {
	Report string   `json:"report" jsonschema:"the full text of the lab report"`
	Age    *float64 `json:"age,omitempty" jsonschema:"chronological age in years, used only if the report does not state one"`
}

// AssessOutput is the output schema for the assess_lab_report tool.
type AssessOutput struct {
	ID            string              `json:"id"`
	Values        map[string]*float64 `json:"values"`
	Missing       []string            `json:"missing"`
	PhenoAgeYears *float64            `json:"phenoage_years,omitempty"`
	Message       string              `json:"message"`
}

// registerTools registers all tool handlers with the MCP server.
// Report tools are only offered when an extractor is wired.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "calculate_phenoage",
		Description: "Calculate phenotypic age (Levine PhenoAge) from nine blood biomarkers and chronological age",
	}, s.handleCalculate)

	if s.ports.Extractor != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "extract_lab_report",
			Description: "Extract the PhenoAge biomarkers from a free-text lab report; values not found are null",
		}, s.handleExtract)
	}

	if s.ports.Assessment != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "assess_lab_report",
			Description: "Extract biomarkers from a lab report and calculate phenotypic age",
		}, s.handleAssess)
	}
}

// handleCalculate handles the calculate_phenoage tool invocation.
// Calculation failures are returned as tool errors, never as a value.
func (s *Server) handleCalculate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CalculateInput,
) (*mcp.CallToolResult, CalculateOutput, error) {
	result, err := s.ports.Calculator.Calculate(ctx, input.Panel())
	if err != nil {
		return nil, CalculateOutput{}, err
	}

	return nil, CalculateOutput{
		PhenoAgeYears: result.Years,
		Formatted:     domain.ResultMessage(*result),
	}, nil
}

// handleExtract handles the extract_lab_report tool invocation.
func (s *Server) handleExtract(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractInput,
) (*mcp.CallToolResult, ExtractOutput, error) {
	extraction, err := s.ports.Extractor.Extract(ctx, input.Report)
	if err != nil {
		return nil, ExtractOutput{}, errors.New(domain.PresentError(err))
	}

	return nil, ExtractOutput{
		Values:  valuesOf(extraction),
		Missing: names(extraction.Missing()),
	}, nil
}

// handleAssess handles the assess_lab_report tool invocation. An incomplete
// panel is a normal outcome: the missing keys are reported so the caller can
// ask for them.
func (s *Server) handleAssess(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AssessInput,
) (*mcp.CallToolResult, AssessOutput, error) {
	assessment, err := s.ports.Assessment.Assess(ctx, input.Report, domain.AssessOptions{Age: input.Age})
	if err != nil && !errors.Is(err, domain.ErrIncompletePanel) {
		if domain.IsCalculationError(err) {
			return nil, AssessOutput{}, err
		}
		return nil, AssessOutput{}, errors.New(domain.PresentError(err))
	}

	output := AssessOutput{
		ID:      assessment.ID,
		Values:  valuesOf(assessment.Extraction),
		Missing: names(assessment.Missing()),
	}

	if err != nil {
		output.Message = fmt.Sprintf("%s Missing: %v", domain.MessageIncomplete, output.Missing)
		return nil, output, nil
	}

	years := assessment.Result.Years
	output.PhenoAgeYears = &years
	output.Message = domain.ResultMessage(*assessment.Result)
	return nil, output, nil
}

func valuesOf(e domain.Extraction) map[string]*float64 {
	values := make(map[string]*float64, len(e))
	for _, b := range domain.AllBiomarkers() {
		if v, ok := e.Get(b); ok {
			values[b.String()] = &v
		} else {
			values[b.String()] = nil
		}
	}
	return values
}

func names(biomarkers []domain.Biomarker) []string {
	out := make([]string, len(biomarkers))
	for i, b := range biomarkers {
		out[i] = b.String()
	}
	return out
}
