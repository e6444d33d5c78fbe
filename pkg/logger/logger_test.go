package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	return record
}

func TestCriticalLevelName(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo, "json")

	log.Critical("monthly update failed", "period", "2025-03")

	record := decodeLine(t, &buf)
	assert.Equal(t, "CRITICAL", record["level"])
	assert.Equal(t, "2025-03", record["period"])
}

func TestBusinessAndInternalErrorLevels(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelDebug, "json")

	log.BusinessError("families.create", errors.New("name required"))
	assert.Equal(t, "WARN", decodeLine(t, &buf)["level"])

	buf.Reset()
	log.InternalError("families.create", errors.New("connection reset"), "family_id", "f1")
	record := decodeLine(t, &buf)
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "connection reset", record["err"])
	assert.Equal(t, "f1", record["family_id"])

	buf.Reset()
	log.InternalError("ignored", nil)
	assert.Zero(t, buf.Len())
}

func TestWithAddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo, "json").With("component", "scheduler")

	log.Info("started")
	assert.Equal(t, "scheduler", decodeLine(t, &buf)["component"])
}

func TestCtxCarriesContextAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo, "json")

	ctx := ContextWith(context.Background(), "request_id", "req-1")
	ctx = ContextWith(ctx, "user_id", "u1")
	log.Ctx(ctx).Info("handled")

	record := decodeLine(t, &buf)
	assert.Equal(t, "req-1", record["request_id"])
	assert.Equal(t, "u1", record["user_id"])

	assert.Same(t, log, log.Ctx(context.Background()))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("", "development"))
	assert.Equal(t, slog.LevelInfo, parseLevel("", "production"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARNING", "production"))
	assert.Equal(t, LevelCritical, parseLevel("fatal", "production"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose", "production"))
}

func TestParseFormatDefaultsToJSON(t *testing.T) {
	assert.Equal(t, "text", parseFormat(" Text "))
	assert.Equal(t, "json", parseFormat("yaml"))
}

func TestDiscardDropsEverything(t *testing.T) {
	log := Discard()
	log.Critical("nothing to see")
	log.StdLogger(slog.LevelError).Print("also dropped")
}
