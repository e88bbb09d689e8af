package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level LogLevel) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := DefaultConfig("sales-management")
	cfg.Level = level
	cfg.Output = &buf
	return New(cfg), &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestEvent_CarriesRequestID(t *testing.T) {
	log, buf := newBufferLogger(LevelInfo)
	ctx := ContextWithRequestID(context.Background(), "req-1")

	log.WithComponent("service").Event(ctx, "sale.created", map[string]any{"saleId": 7})

	entry := decodeLine(t, buf)
	assert.Equal(t, "sales-management", entry["service"])
	assert.Equal(t, "service", entry["component"])
	assert.Equal(t, "sale.created", entry["eventType"])
	assert.Equal(t, "req-1", entry["requestId"])
	assert.EqualValues(t, 7, entry["saleId"])
}

func TestWithFieldsAndRequestID(t *testing.T) {
	log, buf := newBufferLogger(LevelInfo)

	log.WithRequestID("req-9").WithFields(map[string]any{"saleId": 3, "storeId": 2}).Info("moved")

	entry := decodeLine(t, buf)
	assert.Equal(t, "req-9", entry["requestId"])
	assert.EqualValues(t, 3, entry["saleId"])
	assert.EqualValues(t, 2, entry["storeId"])
}

func TestHTTPRequest_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusNotFound, "WARN"},
		{http.StatusInternalServerError, "ERROR"},
	}
	for _, tt := range tests {
		log, buf := newBufferLogger(LevelDebug)
		log.HTTPRequest(context.Background(), http.MethodGet, "/sales", tt.status, time.Millisecond, "127.0.0.1")
		assert.Equal(t, tt.level, decodeLine(t, buf)["level"])
	}
}

func TestLevelFiltersAndError(t *testing.T) {
	log, buf := newBufferLogger(LevelWarn)
	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.WithError(errors.New("boom")).Error("failed")
	assert.Equal(t, "boom", decodeLine(t, buf)["error"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
}
