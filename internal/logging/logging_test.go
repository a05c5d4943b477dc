package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("save failed", "err", "quota exceeded")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "save failed")
	assert.Contains(t, out, "quota exceeded")
	assert.Contains(t, out, "todolist")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "chatty")
	assert.Error(t, err)
}

func TestOpenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "todolist.log")

	for _, msg := range []string{"first", "second"} {
		logger, closer, err := Open(path, "")
		require.NoError(t, err)
		logger.Info(msg)
		require.NoError(t, closer.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first")
	assert.Contains(t, string(data), "second")
}
