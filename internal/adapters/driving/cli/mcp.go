package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can calculate
phenotypic age and read lab reports.

Tools:
  calculate_phenoage  - ten biomarker values in, phenotypic age out
  extract_lab_report  - lab report text in, biomarker values out (needs an LLM)
  assess_lab_report   - both steps at once (needs an LLM)

By default, the server communicates over stdio using JSON-RPC.
Use --port to serve streamable HTTP instead.

Examples:
  # Stdio mode (default, for desktop assistants)
  phenoage mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  phenoage mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "phenoage": {
        "command": "/path/to/phenoage",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Calculator: calculatorService,
		Extractor:  extractorService,
		Assessment: assessmentService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
