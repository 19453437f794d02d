package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONMasksSecrets(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "debug", Format: "json"}, &buf)

	log.Info(context.Background(), "signed in", "email", "a@b.c", "password", "hunter22", "access_token", "abc")

	out := buf.String()
	assert.NotContains(t, out, "hunter22")
	assert.NotContains(t, out, `"access_token":"abc"`)
	assert.Contains(t, out, "a@b.c")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "signed in", rec["msg"])
}

func TestNew_TextFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Format: "text"}, &buf)
	ctx := context.Background()

	log.Info(ctx, "hidden")
	log.Warn(ctx, "shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "k=v")
}

func TestNew_PrettyWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Format: "pretty"}, &buf)

	log.Info(context.Background(), "quote of the day")

	assert.Contains(t, buf.String(), "quote of the day")
}

func TestNew_FileSink(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "app.log")
	log := New(Options{Format: "json", File: path}, &buf)

	log.Info(context.Background(), "to file")

	assert.Empty(t, buf.String(), "writer is bypassed when a file is configured")
	assert.FileExists(t, path)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestDiscard_DoesNotPanic(t *testing.T) {
	l := Discard()
	l.With("a", 1).Error(context.Background(), "nothing")
	require.NotNil(t, l.Slog())
}
