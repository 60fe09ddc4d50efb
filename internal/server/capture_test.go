package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

type recordingStore struct {
	saved []*oauth2.Token
	err   error
}

func (s *recordingStore) SaveToken(_ context.Context, token *oauth2.Token) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, token)
	return nil
}

func postToken(h http.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/token", strings.NewReader(body)))
	return rec
}

func TestCaptureHandler(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("stores the token and reports the first capture", func(t *testing.T) {
		store := &recordingStore{}
		h := NewCaptureHandler(store, nil)
		h.now = func() time.Time { return now }

		rec := postToken(h, `{"fragment": "#access_token=secret&token_type=Bearer&expires_in=3600"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if strings.Contains(rec.Body.String(), "secret") {
			t.Error("response must not echo the token")
		}

		var resp CaptureResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad response body: %v", err)
		}
		if !resp.Stored || resp.TokenType != "Bearer" || resp.ExpiresAt == nil || !resp.ExpiresAt.Equal(now.Add(time.Hour)) {
			t.Errorf("unexpected response %+v", resp)
		}

		if len(store.saved) != 1 || store.saved[0].AccessToken != "secret" {
			t.Fatalf("expected token to be saved, got %v", store.saved)
		}

		select {
		case result := <-h.Result():
			if result.Error() != nil || result.Token.AccessToken != "secret" {
				t.Errorf("unexpected result %+v", result)
			}
		default:
			t.Fatal("expected a result on the channel")
		}
	})

	t.Run("later captures still store", func(t *testing.T) {
		store := &recordingStore{}
		h := NewCaptureHandler(store, nil)

		postToken(h, `{"fragment": "access_token=one"}`)
		postToken(h, `{"fragment": "access_token=two"}`)
		if len(store.saved) != 2 {
			t.Errorf("expected 2 saves, got %d", len(store.saved))
		}
	})

	t.Run("no token is a no-op", func(t *testing.T) {
		store := &recordingStore{}
		h := NewCaptureHandler(store, nil)

		rec := postToken(h, `{"fragment": ""}`)
		if rec.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rec.Code)
		}
		if len(store.saved) != 0 {
			t.Error("expected nothing saved")
		}
	})

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "malformed body", body: `{`, status: http.StatusBadRequest},
		{name: "unknown field", body: `{"token": "x"}`, status: http.StatusBadRequest},
		{name: "bad expires_in", body: `{"fragment": "access_token=x&expires_in=soon"}`, status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postToken(NewCaptureHandler(&recordingStore{}, nil), tt.body)
			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}

	t.Run("storage failure", func(t *testing.T) {
		h := NewCaptureHandler(&recordingStore{err: errors.New("disk full")}, nil)

		rec := postToken(h, `{"fragment": "access_token=x"}`)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		result := <-h.Result()
		if result.Error() == nil {
			t.Error("expected the failure on the result channel")
		}
	})

	t.Run("routes through a router", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handler(NewCaptureHandler(&recordingStore{}, nil))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/token", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405 for GET, got %d", rec.Code)
		}
	})
}
