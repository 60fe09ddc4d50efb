package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sortify/internal/shared"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(RequestIDFromContext(r.Context())))
	})
}

func TestRequestID(t *testing.T) {
	t.Run("generates an id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RequestID()(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		id := rec.Header().Get(RequestIDHeader)
		if id == "" {
			t.Fatal("expected a request id header")
		}
		if rec.Body.String() != id {
			t.Errorf("expected id in context, got %q", rec.Body.String())
		}
	})

	t.Run("reuses the caller's id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc")
		rec := httptest.NewRecorder()
		RequestID()(okHandler()).ServeHTTP(rec, req)

		if rec.Header().Get(RequestIDHeader) != "abc" || rec.Body.String() != "abc" {
			t.Errorf("expected abc, got header %q body %q", rec.Header().Get(RequestIDHeader), rec.Body.String())
		}
	})
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := shared.NewLogger(&buf)
	logger.SetLevel(log.DebugLevel)

	failing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	handler := RequestID()(Logging(logger)(failing))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/playlists", nil))

	out := buf.String()
	for _, want := range []string{"ERRO", "/api/playlists", "status=502", "request_id="} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q: %s", want, out)
		}
	}
}

func TestRateLimit(t *testing.T) {
	t.Run("rejects past the burst", func(t *testing.T) {
		handler := RateLimit(NewLimiter(0.001, 2))(okHandler())

		codes := make([]int, 3)
		for i := range codes {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			codes[i] = rec.Code
		}
		if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
			t.Errorf("unexpected codes %v", codes)
		}
	})

	t.Run("non-positive rate is unlimited", func(t *testing.T) {
		handler := RateLimit(NewLimiter(0, 0))(okHandler())
		for i := range 50 {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("request %d: got %d", i, rec.Code)
			}
		}
	})
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("kaboom") })

	rec := httptest.NewRecorder()
	Recover(shared.NewLogger(&buf))(panicky).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(buf.String(), "kaboom") {
		t.Errorf("expected panic to be logged: %s", buf.String())
	}
}
