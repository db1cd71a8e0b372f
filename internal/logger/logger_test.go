package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, time.UTC, "info")

	log.Info().Str("component", "test").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "test", entry["component"])
	assert.Equal(t, "hello", entry["message"])
	assert.NotEmpty(t, entry["ts"])
}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, nil, "warn")

	log.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("kept")
	assert.NotZero(t, buf.Len())
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, time.UTC, "loud")

	log.Debug().Msg("dropped")
	assert.Zero(t, buf.Len())

	log.Info().Msg("kept")
	assert.NotZero(t, buf.Len())
}

func TestNew_TimestampInLocation(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)
	var utcBuf, mskBuf bytes.Buffer
	utcLog := New(&utcBuf, time.UTC, "info")
	mskLog := New(&mskBuf, moscow, "info")

	utcLog.Info().Msg("a")
	mskLog.Info().Msg("b")

	var utcEntry, mskEntry map[string]any
	require.NoError(t, json.Unmarshal(utcBuf.Bytes(), &utcEntry))
	require.NoError(t, json.Unmarshal(mskBuf.Bytes(), &mskEntry))

	utcTS, err := time.Parse(time.RFC3339Nano, utcEntry[TimestampField].(string))
	require.NoError(t, err)
	mskTS, err := time.Parse(time.RFC3339Nano, mskEntry[TimestampField].(string))
	require.NoError(t, err)

	_, utcOffset := utcTS.Zone()
	_, mskOffset := mskTS.Zone()
	assert.Equal(t, 0, utcOffset)
	assert.Equal(t, 3*60*60, mskOffset)
}
