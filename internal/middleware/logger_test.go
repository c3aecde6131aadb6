package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not json: %v (%s)", err, buf.String())
	}
	return line
}

func TestLoggerWritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	handler := RequestID(I18N("en", nil)(Logger(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("nope"))
	}))))
	req := httptest.NewRequest(http.MethodPost, "/v1/layouts", nil)
	req.Header.Set(RequestIDHeader, "rid-1")
	req.Header.Set("X-Locale", "es-MX")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	line := logLine(t, &buf)
	if line["request_id"] != "rid-1" || line["path"] != "/v1/layouts" || line["status"] != float64(400) {
		t.Fatalf("unexpected log line: %v", line)
	}
	if line["bytes"] != float64(4) {
		t.Fatalf("bytes = %v, want 4", line["bytes"])
	}
	if line["locale"] != "es" || line["country"] != "MX" {
		t.Fatalf("locale/country = %v/%v", line["locale"], line["country"])
	}
	if line["level"] != "warn" {
		t.Fatalf("level = %v, want warn", line["level"])
	}
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{status: 0, want: "info"},
		{status: http.StatusCreated, want: "info"},
		{status: http.StatusNotFound, want: "warn"},
		{status: http.StatusBadGateway, want: "error"},
	}
	for _, tc := range tests {
		var buf bytes.Buffer
		handler := Logger(zerolog.New(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tc.status != 0 {
				w.WriteHeader(tc.status)
			}
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		line := logLine(t, &buf)
		if line["level"] != tc.want {
			t.Fatalf("status %d: level = %v, want %s", tc.status, line["level"], tc.want)
		}
	}
}
