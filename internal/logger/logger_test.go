package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsearch/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info")

	log.Debug("hidden")
	log.Info("extraction failed", "file_type", "pdf")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "extraction failed", entry["msg"])
	assert.Equal(t, "pdf", entry["file_type"])
	assert.NotEmpty(t, entry[TimeKey])
	assert.NotContains(t, entry, "time")
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log := New(config.LogConfig{Level: "info", File: path, MaxSizeMB: 1})
	log.Info("hello")

	assert.FileExists(t, path)
}

func TestRequestIDAttribute(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "debug").With("component", "service")

	ctx := WithRequestID(context.Background(), "req-42")
	log.InfoContext(ctx, "document ingested")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Equal(t, "service", entry["component"])
	assert.Equal(t, "req-42", RequestIDFrom(ctx))
	assert.Equal(t, "", RequestIDFrom(context.Background()))
}
