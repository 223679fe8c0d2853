package logx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

func TestAnonymizeIP(t *testing.T) {
	tests := map[string]string{
		"203.0.113.77:5555":    "203.0.113.0",
		"198.51.100.9":         "198.51.100.0",
		"[2001:db8:1:2::7]:80": "2001:db8:1:2::",
		"127.0.0.1:1":          "127.0.0.1",
		"garbage":              "unknown_ip",
	}
	for in, want := range tests {
		if got := AnonymizeIP(in); got != want {
			t.Errorf("AnonymizeIP(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHelpersWriteStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	InitGlobalLogger(false, &buf)

	Error(errors.New("boom"), "Something failed", "user_id", "u1")
	Info("Odd fields", "lonely")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 3 {
		t.Fatalf("got %d log lines, want 3:\n%s", len(lines), buf.String())
	}

	var first map[string]any
	if err := json.Unmarshal(lines[0], &first); err != nil {
		t.Fatal(err)
	}
	if first["level"] != "error" || first["error"] != "boom" || first["user_id"] != "u1" || first["message"] != "Something failed" {
		t.Fatalf("first line = %v", first)
	}
}

func TestRequestLoggerQuietsPolling(t *testing.T) {
	var buf bytes.Buffer
	InitGlobalLogger(false, &buf)

	h := middleware.RequestID(RequestLogger()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/users/x/ping", nil))
	if buf.Len() != 0 {
		t.Fatalf("ping logged at info level: %s", buf.String())
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/users", nil))
	if !bytes.Contains(buf.Bytes(), []byte(`"request_uri":"/api/users"`)) {
		t.Fatalf("request not logged: %s", buf.String())
	}
}
