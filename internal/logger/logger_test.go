package logger

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// capture enables verbose output into a buffer and restores defaults after the test.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	t.Cleanup(func() { SetVerbose(false) })

	SetVerbose(false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name string
		log  func()
		want string
	}{
		{"debug", func() { Debug("model %s", "gpt-4o") }, "[DEBUG] model gpt-4o\n"},
		{"info", func() { Info("missing %d values", 2) }, "[INFO] missing 2 values\n"},
		{"warn", func() { Warn("decode failed") }, "[WARN] decode failed\n"},
		{"section", func() { Section("Assessment") }, "\n=== Assessment ===\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t)

			tt.log()

			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestQuietWhenNotVerbose(t *testing.T) {
	buf := capture(t)
	SetVerbose(false)

	Debug("a")
	Info("b")
	Warn("c")
	Section("d")
	Elapsed("e", time.Now())

	assert.Zero(t, buf.Len())
}

func TestElapsed(t *testing.T) {
	buf := capture(t)

	Elapsed("extraction", time.Now().Add(-1500*time.Millisecond))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "[DEBUG] extraction took 1.5"), out)
	assert.True(t, strings.HasSuffix(out, "s\n"), out)
}

func TestRedact(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"short", "****"},
		{"12345678", "****"},
		{"sk-test-abcdef1234", "****1234"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Redact(tt.in))
		})
	}
}

func TestConcurrentAccess(t *testing.T) {
	buf := capture(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Info("concurrent %d", i)
			IsVerbose()
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 10)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "[INFO] concurrent "), line)
	}
}
