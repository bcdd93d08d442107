package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger(level string) (Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return New("importController").WithHandler(NewHandler(buf, level, "json")), buf
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLogger_ScopeAttributes(t *testing.T) {
	log, buf := newBufferedLogger("info")

	log.File("import_handler").Function("upload").Info("file accepted", "filename", "march.xlsx")

	entry := decode(t, buf)
	assert.Equal(t, "file accepted", entry["msg"])
	assert.Equal(t, "importController", entry["component"])
	assert.Equal(t, "import_handler", entry["file"])
	assert.Equal(t, "upload", entry["function"])
	assert.Equal(t, "march.xlsx", entry["filename"])
}

func TestLogger_ErrWrapsCause(t *testing.T) {
	log, buf := newBufferedLogger("info")
	cause := errors.New("connection refused")

	err := log.Function("Import").Err("failed to insert events", cause, "rows", 3)

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to insert events: connection refused", err.Error())

	entry := decode(t, buf)
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "connection refused", entry["error"])
	assert.EqualValues(t, 3, entry["rows"])
}

func TestLogger_ErrorAndErrMsg(t *testing.T) {
	log, _ := newBufferedLogger("info")

	err := log.Error("database path is empty", "dbPath", "")
	assert.EqualError(t, err, "database path is empty")

	err = log.ErrMsg("nil check failed")
	assert.EqualError(t, err, "nil check failed")
}

func TestLogger_LevelFiltering(t *testing.T) {
	log, buf := newBufferedLogger("warn")

	log.Debug("debug line")
	log.Info("info line")
	assert.Zero(t, buf.Len())

	log.Warn("warn line")
	assert.Contains(t, buf.String(), "warn line")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for input, want := range tests {
		assert.Equal(t, want, ParseLevel(input), input)
	}
}
