// Package mcp provides an MCP (Model Context Protocol) server adapter for phenoage.
// It lets AI assistants calculate phenotypic age and read lab reports through
// the same services the CLI uses.
package mcp

import "errors"

// ErrMissingCalculatorService is returned when the calculator service is not provided.
var ErrMissingCalculatorService = errors.New("mcp: calculator service is required")
