package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorCloser struct {
	err error
}

func (e *errorCloser) Close() error {
	return e.err
}

func TestSafeCloseWithLogging(t *testing.T) {
	t.Run("closes a file quietly", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		f, err := os.Create(filepath.Join(t.TempDir(), "out.svg"))
		require.NoError(t, err)

		SafeCloseWithLogging(f, logger, "write_chart")
		assert.NotContains(t, buf.String(), `"level":"ERROR"`)
	})

	t.Run("logs a failed close", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		SafeCloseWithLogging(&errorCloser{err: assert.AnError}, logger, "read_dataset")

		output := buf.String()
		assert.Contains(t, output, `"level":"ERROR"`)
		assert.Contains(t, output, `"msg":"failed to close resource"`)
		assert.Contains(t, output, `"operation":"read_dataset"`)
	})

	t.Run("nil closer is ignored", func(t *testing.T) {
		SafeCloseWithLogging(nil, nil, "noop")
	})
}

func TestHandleDeferredError(t *testing.T) {
	t.Run("adopts the cleanup error when there was none", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		var err error
		HandleDeferredError(&err, func() error { return assert.AnError }, logger, "close_output")

		require.Error(t, err)
		assert.True(t, errors.Is(err, assert.AnError))
		assert.Contains(t, err.Error(), "close_output failed")
		assert.Contains(t, buf.String(), `"msg":"deferred operation failed"`)
	})

	t.Run("keeps the original error", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		original := errors.New("render failed")
		err := original
		HandleDeferredError(&err, func() error { return assert.AnError }, logger, "close_output")

		assert.Same(t, original, err)
		assert.Contains(t, buf.String(), "close_output")
	})

	t.Run("successful cleanup leaves the error alone", func(t *testing.T) {
		var err error
		HandleDeferredError(&err, func() error { return nil }, nil, "close_output")
		assert.NoError(t, err)
	})
}
