package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"":      slog.LevelInfo,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("trace")
	assert.Error(t, err)
}

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Format: "json", Output: &buf, Component: ComponentSnapshot})
	l.Info("saved", FieldMonth, "2024-01")

	out := buf.String()
	assert.Contains(t, out, `"component":"snapshot"`)
	assert.Contains(t, out, `"month":"2024-01"`)

	buf.Reset()
	l.WithComponent(ComponentHTTP).Warn("slow")
	assert.Contains(t, buf.String(), `"component":"http"`)
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelWarn, Output: &buf})
	l.Info("hidden")
	l.Debug("hidden")
	assert.Empty(t, buf.String())
	l.Error("shown", FieldError, "boom")
	assert.Contains(t, buf.String(), "shown")
}

func TestMiddlewareAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Format: "json", Output: &buf})

	h := Middleware(base)(RequestIDMiddleware(func(*http.Request) string { return "req-1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			FromContext(r.Context()).InfoContext(r.Context(), "inside")
		}),
	))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)

	assert.Equal(t, "unknown", FromContext(context.Background()).Component())
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Format: "json", Output: &buf}))

	sl.LogMonthChange(context.Background(), OpSave, "2024-02", nil)
	assert.Contains(t, buf.String(), `"operation":"save"`)
	assert.Contains(t, buf.String(), `"month":"2024-02"`)

	buf.Reset()
	sl.LogMonthChange(context.Background(), OpImport, "", NewFields().WithMonths(3))
	assert.Contains(t, buf.String(), `"months":3`)
	assert.NotContains(t, buf.String(), `"month":`)

	buf.Reset()
	sl.LogError(context.Background(), "persist failed", errors.New("disk full"), OpSave, NewFields().WithMonth("2024-02"))
	assert.Contains(t, buf.String(), `"error":"disk full"`)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)

	buf.Reset()
	r := httptest.NewRequest(http.MethodPost, "/months/save", nil)
	sl.LogHTTPEnd(context.Background(), r, 503, 12, "127.0.0.1")
	assert.Contains(t, buf.String(), `"status_code":503`)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}
