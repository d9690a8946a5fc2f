package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for phenoage resources.
	uriScheme = "phenoage://"
)

// biomarkerInfo describes one input of the PhenoAge formula.
type biomarkerInfo struct {
	Name        string `json:"name"`
	Unit        string `json:"unit"`
	Description string `json:"description"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "biomarkers",
		Name:        "biomarkers",
		Description: "The ten PhenoAge inputs with their expected units",
		MIMEType:    "application/json",
	}, s.handleBiomarkersResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "biomarkers/{name}",
		Name:        "biomarker",
		Description: "Unit and description of a single biomarker; synonyms such as crp are accepted",
		MIMEType:    "application/json",
	}, s.handleBiomarkerResource)
}

// handleBiomarkersResource lists every biomarker in formula order.
func (s *Server) handleBiomarkersResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	all := domain.AllBiomarkers()
	infos := make([]biomarkerInfo, len(all))
	for i, b := range all {
		infos[i] = infoOf(b)
	}

	return jsonResource(req.Params.URI, infos)
}

// handleBiomarkerResource describes the biomarker named in the URI.
func (s *Server) handleBiomarkerResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	name := extractBiomarkerName(req.Params.URI)
	b, ok := domain.ParseBiomarker(name)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return jsonResource(req.Params.URI, infoOf(b))
}

func infoOf(b domain.Biomarker) biomarkerInfo {
	return biomarkerInfo{Name: b.String(), Unit: b.Unit(), Description: b.Description()}
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractBiomarkerName extracts the name from a URI like phenoage://biomarkers/{name}.
func extractBiomarkerName(uri string) string {
	const prefix = uriScheme + "biomarkers/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	name, err := url.PathUnescape(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return ""
	}
	return name
}
