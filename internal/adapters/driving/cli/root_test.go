package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
	"github.com/custodia-labs/phenoage-cli/internal/logger"
)

func TestRootCmd_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"calc", "extract", "assess", "watch", "settings", "tui", "mcp", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestExecute_PrintsUserFacingError(t *testing.T) {
	setupTestServices(t, Services{Calculator: &mockCalculator{}})
	resetFlags(rootCmd)

	var errOut bytes.Buffer
	rootCmd.SetErr(&errOut)
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"extract"})
	t.Cleanup(func() {
		rootCmd.SetErr(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	err := Execute(context.Background())

	require.ErrorIs(t, err, domain.ErrLLMUnavailable)
	assert.Equal(t, "Error: "+domain.MessageLLMUnavailable+"\n", errOut.String())
}

func TestSetServices(t *testing.T) {
	calc := &mockCalculator{}
	settings := newMockSettings()
	setupTestServices(t, Services{Calculator: calc, Settings: settings})

	assert.Same(t, calc, calculatorService)
	assert.Same(t, settings, settingsService)
	assert.Nil(t, extractorService)
	assert.Nil(t, assessmentService)
}

func TestVerboseFlag(t *testing.T) {
	setupTestServices(t, Services{})
	t.Cleanup(func() { logger.SetVerbose(false) })

	_, _, err := run(t, "", "--verbose", "version")

	require.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}

func TestStartupWarnings_LoggedWhenVerbose(t *testing.T) {
	setupTestServices(t, Services{})
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	SetWarnings([]string{"LLM provider not configured"})
	t.Cleanup(func() {
		SetWarnings(nil)
		logger.SetVerbose(false)
		logger.SetOutput(os.Stderr)
	})

	_, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	_, _, err = run(t, "", "-v", "version")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "[WARN] LLM provider not configured")
}

func TestStartupCheck_UnreachableProvider(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		pingErr error
		want    string
	}{
		{"verbose and unreachable", []string{"-v", "version"}, errors.New("connection refused"), "[WARN] LLM provider unreachable: connection refused"},
		{"verbose and reachable", []string{"-v", "version"}, nil, ""},
		{"quiet", []string{"version"}, errors.New("connection refused"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := newMockSettings()
			settings.pingErr = tt.pingErr
			setupTestServices(t, Services{Extractor: &mockExtractor{}, Settings: settings})
			var buf bytes.Buffer
			logger.SetOutput(&buf)
			t.Cleanup(func() {
				logger.SetVerbose(false)
				logger.SetOutput(os.Stderr)
			})

			_, _, err := run(t, "", tt.args...)

			require.NoError(t, err)
			if tt.want == "" {
				assert.NotContains(t, buf.String(), "unreachable")
				return
			}
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestStartupCheck_SkippedWithoutModel(t *testing.T) {
	settings := newMockSettings()
	settings.pingErr = errors.New("should not be reached")
	setupTestServices(t, Services{Settings: settings})
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() {
		logger.SetVerbose(false)
		logger.SetOutput(os.Stderr)
	})

	_, _, err := run(t, "", "-v", "version")

	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "unreachable")
}
