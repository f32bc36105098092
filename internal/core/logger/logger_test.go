package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"gametask/internal/core/config"
)

func TestNew_LevelFallback(t *testing.T) {
	l, cleanup := New(Options{Level: "not-a-level", JSON: true})
	defer cleanup()
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestFromConfig_WritesJSONFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	l, cleanup := FromConfig(
		config.App{Name: "gametask", Env: "test"},
		config.Log{Level: "debug", File: config.LogFile{Enable: true, Filename: file, MaxSizeMB: 1}},
	)
	l.Debug("hello", zap.String("k", "v"))
	cleanup()

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(b), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "gametask", entry["app"])
	assert.Equal(t, "test", entry["env"])
	assert.Equal(t, "v", entry["k"])
}

func TestToWriter_TrimsNewline(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	w := ToWriter(zap.New(core), zapcore.WarnLevel)

	n, err := w.Write([]byte("slow sql\n"))
	require.NoError(t, err)
	assert.Equal(t, len("slow sql\n"), n)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "slow sql", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestNamed(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Named(zap.New(core), "score").Info("x")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "score", logs.All()[0].ContextMap()["component"])
	assert.NotNil(t, Named(nil, "x"))
}
