package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"), "unknown level falls back to info")
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	ctx := WithLogger(context.Background(), log)

	assert.Same(t, log, FromContext(ctx))
	assert.Same(t, log, FromContextOrDefault(ctx, nil))

	// Without a stored logger the fallback wins.
	assert.Same(t, log, FromContextOrDefault(context.Background(), log))
	assert.NotNil(t, FromContext(context.Background()))
}

func TestJSONRecordShape(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	log.Info("migration step applied",
		slog.String("component", "migrations"),
		slog.String("step", "003_part_of_speech"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "migration step applied", record["msg"])
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "migrations", record["component"])
	assert.Contains(t, record, "time")
}
