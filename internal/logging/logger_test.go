package logging

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worldmap.log")
	l, err := NewLogger(LogConfig{Level: "debug", Format: "json", OutputPaths: []string{path}})
	require.NoError(t, err)
	l.Info("hello", String("k", "v"))
	assert.NoError(t, l.Sync())
	assert.FileExists(t, path)
}

func TestNewLogger_BadPath(t *testing.T) {
	_, err := NewLogger(LogConfig{OutputPaths: []string{filepath.Join(t.TempDir(), "missing", "x.log")}})
	assert.Error(t, err)
}

func TestFromZap_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core)).Named("store").With(String("panel", "main"))

	l.Warn("rejected", String("id", "poi-1"), Int("n", 2), Float64("z", 3.5),
		Bool("ok", false), Duration("d", time.Second), Err(errors.New("boom")), Any("v", []int{1}))

	require.Equal(t, 1, logs.Len())
	e := logs.All()[0]
	assert.Equal(t, "store", e.LoggerName)
	assert.Equal(t, zapcore.WarnLevel, e.Level)
	ctx := e.ContextMap()
	assert.Equal(t, "main", ctx["panel"])
	assert.Equal(t, "poi-1", ctx["id"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}

func TestNop(t *testing.T) {
	l := OrNop(nil)
	l.Error("ignored")
	assert.NoError(t, l.Sync())
	assert.NotNil(t, l.With(String("a", "b")).Named("x"))
}
