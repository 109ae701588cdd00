package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "nested", "system.log")

	l, err := New(LevelInfo, logPath, false)
	require.NoError(t, err)

	l.Info("build started for %s", "conversation-1")
	l.Debug("this should be filtered out")
	require.NoError(t, l.Close())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[INFO] build started for conversation-1")
	assert.NotContains(t, string(content), "filtered out")
}

func TestNewPreserveAppends(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "system.log")
	require.NoError(t, os.WriteFile(logPath, []byte("existing\n"), 0o644))

	l, err := New(LevelInfo, logPath, true)
	require.NoError(t, err)
	l.Info("new entry")
	require.NoError(t, l.Close())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "existing")
	assert.Contains(t, string(content), "new entry")
}

func TestNewTruncatesWhenNotPreserving(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "system.log")
	require.NoError(t, os.WriteFile(logPath, []byte("stale\n"), 0o644))

	l, err := New(LevelInfo, logPath, false)
	require.NoError(t, err)
	l.Info("fresh entry")
	require.NoError(t, l.Close())

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "stale")
	assert.Contains(t, string(content), "fresh entry")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, parseLevel("debug"))
	assert.Equal(t, LevelWarn, parseLevel("warning"))
	assert.Equal(t, LevelInfo, parseLevel("unknown"))
}
