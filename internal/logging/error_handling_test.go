package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeClose(t *testing.T) {
	t.Run("closes a file safely without error logging", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		f, err := os.Create(filepath.Join(t.TempDir(), "trace.log"))
		require.NoError(t, err)

		SafeCloseWithLogging(f, logger, "test_operation")

		// Check that no error was logged (successful close)
		output := buf.String()
		if output != "" {
			assert.NotContains(t, output, `"level":"ERROR"`)
		}
	})

	t.Run("logs error when close fails", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		// Create a closer that always returns an error
		errorCloser := &errorCloser{err: assert.AnError}

		SafeCloseWithLogging(errorCloser, logger, "test_operation")

		output := buf.String()
		assert.Contains(t, output, `"level":"ERROR"`)
		assert.Contains(t, output, `"msg":"failed to close resource"`)
		assert.Contains(t, output, `"operation":"test_operation"`)
	})

	t.Run("tolerates nil closer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		SafeCloseWithLogging(nil, logger, "test_operation")

		assert.Empty(t, buf.String())
	})
}

// Mock types for testing
type errorCloser struct {
	err error
}

func (e *errorCloser) Close() error {
	return e.err
}
