package logging

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")

	l, err := New(Options{FilePath: path, Level: "debug"})
	require.NoError(t, err)
	l.Debug("hello", zap.String("k", "v"))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"k":"v"`)
}

func TestNewRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	l, err := New(Options{FilePath: path, Level: "warn"})
	require.NoError(t, err)
	l.Info("quiet")
	l.Warn("loud")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "quiet")
	assert.Contains(t, string(data), "loud")
}

func TestNewRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	_, err := New(Options{FilePath: filepath.Join(dir, "a.log"), Level: "loud"})
	require.Error(t, err)

	_, err = New(Options{FilePath: filepath.Join(dir, "b.log"), Format: "xml"})
	require.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)

	lvl, err = ParseLevel("ERROR")
	require.NoError(t, err)
	assert.Equal(t, zapcore.ErrorLevel, lvl)
}

func TestContextRoundTrip(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	l := zap.NewExample()
	ctx := ContextWithLogger(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}
