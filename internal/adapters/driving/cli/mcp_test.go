package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/mcp"
)

func TestMCPServeCmd_Flags(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")

	assert.NotNil(t, flag)
	assert.Equal(t, "0", flag.DefValue)
	assert.Equal(t, "p", flag.Shorthand)
}

func TestMCPServeCmd_NoCalculator(t *testing.T) {
	setupTestServices(t, Services{})

	_, _, err := run(t, "", "mcp", "serve")

	assert.ErrorIs(t, err, mcp.ErrMissingCalculatorService)
}
