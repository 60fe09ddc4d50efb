package web

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/sortify/internal/library"
	"github.com/desertthunder/sortify/internal/models"
	"github.com/desertthunder/sortify/internal/repositories"
	"github.com/desertthunder/sortify/internal/shared"
	th "github.com/desertthunder/sortify/internal/testing"
	"github.com/go-test/deep"
)

type fixture struct {
	handler http.Handler
	lib     *library.Library
	prefs   *repositories.Preferences
}

func newFixture(t *testing.T, store models.KeyValueStore, entries []models.PlaylistEntry) fixture {
	t.Helper()

	prefs := repositories.NewPreferences(repositories.PreferencesOpts{Store: store})
	lib, err := library.New(library.Opts{Persistence: prefs})
	if err != nil {
		t.Fatalf("failed to create library: %v", err)
	}
	if err := lib.Initialize(context.Background(), entries); err != nil {
		t.Fatalf("failed to initialize library: %v", err)
	}

	cfg := shared.DefaultConfig()
	handler, err := New(Opts{Library: lib, Tokens: prefs, UI: cfg.UI, Server: shared.ServerConfig{RateLimit: 0}})
	if err != nil {
		t.Fatalf("failed to build handler: %v", err)
	}
	return fixture{handler: handler, lib: lib, prefs: prefs}
}

func (f fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(method, target, r))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestPages(t *testing.T) {
	f := newFixture(t, repositories.NewMemoryStore(), th.Entries())

	for _, path := range []string{"/", "/Sortify", "/Sortify/callback"} {
		t.Run(path, func(t *testing.T) {
			rec := f.do(t, http.MethodGet, path, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
				t.Errorf("unexpected content type %s", rec.Header().Get("Content-Type"))
			}
			if !strings.Contains(rec.Body.String(), "/static/app.js") {
				t.Error("expected page to load the script")
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Error("expected a request id")
			}
		})
	}

	t.Run("unknown path", func(t *testing.T) {
		if rec := f.do(t, http.MethodGet, "/elsewhere", ""); rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestStatic(t *testing.T) {
	f := newFixture(t, repositories.NewMemoryStore(), th.Entries())

	t.Run("serves minified script", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/static/app.js", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		raw, _ := staticFS.ReadFile("static/app.js")
		if rec.Body.Len() == 0 || rec.Body.Len() >= len(raw) {
			t.Errorf("expected minified output smaller than %d bytes, got %d", len(raw), rec.Body.Len())
		}
	})

	t.Run("list replies are applied in request order", func(t *testing.T) {
		raw, err := staticFS.ReadFile("static/app.js")
		if err != nil {
			t.Fatalf("failed to read script: %v", err)
		}
		if !strings.Contains(string(raw), "seq !== loadSeq") {
			t.Error("expected superseded list replies to be dropped before rendering")
		}
	})

	t.Run("gzip when accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/static/style.css", nil)
		req.Header.Set("Accept-Encoding", "gzip, deflate")
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, req)

		if rec.Header().Get("Content-Encoding") != "gzip" {
			t.Fatalf("expected gzip encoding, got %q", rec.Header().Get("Content-Encoding"))
		}
		zr, err := gzip.NewReader(rec.Body)
		if err != nil {
			t.Fatalf("invalid gzip body: %v", err)
		}
		body, _ := io.ReadAll(zr)
		if !strings.Contains(string(body), "body.dark") {
			t.Errorf("unexpected stylesheet %q", body)
		}
	})

	t.Run("missing asset", func(t *testing.T) {
		if rec := f.do(t, http.MethodGet, "/static/nope.js", ""); rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})
}

func TestAPI(t *testing.T) {
	t.Run("settings", func(t *testing.T) {
		f := newFixture(t, repositories.NewMemoryStore(), th.Entries())
		got := decode[Settings](t, f.do(t, http.MethodGet, "/api/settings", ""))
		want := Settings{PageSize: 30, Threshold: 500, LoadDelayMS: 500, ReverseDelayMS: 100, Theme: models.ThemeLight}
		if diff := deep.Equal(got, want); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("list applies limit after counting", func(t *testing.T) {
		f := newFixture(t, repositories.NewMemoryStore(), th.ManyEntries(75))

		got := decode[ListResponse](t, f.do(t, http.MethodGet, "/api/playlists?limit=30", ""))
		if got.Total != 75 || got.Count != 30 || len(got.Items) != 30 {
			t.Errorf("unexpected page: total=%d count=%d items=%d", got.Total, got.Count, len(got.Items))
		}

		got = decode[ListResponse](t, f.do(t, http.MethodGet, "/api/playlists?limit=90", ""))
		if got.Count != 75 {
			t.Errorf("expected all 75, got %d", got.Count)
		}
	})

	t.Run("toggle then filter", func(t *testing.T) {
		f := newFixture(t, repositories.NewMemoryStore(), th.Entries())
		url := th.Entries()[2].URL

		rec := f.do(t, http.MethodPost, "/api/playlists/toggle", `{"url": "`+url+`"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if resp := decode[toggleResponse](t, rec); !resp.Listened {
			t.Error("expected listened after toggle")
		}

		got := decode[ListResponse](t, f.do(t, http.MethodGet, "/api/playlists?filter=selected", ""))
		if got.Count != 1 || got.Items[0].URL != url || !got.Items[0].Listened || got.Listened != 1 {
			t.Errorf("unexpected selected view %+v", got)
		}

		got = decode[ListResponse](t, f.do(t, http.MethodGet, "/api/playlists?filter=not-selected&q=JAZZ", ""))
		if got.Count != 1 || got.Items[0].Name != "Jazz" {
			t.Errorf("unexpected search view %+v", got)
		}

		stored, _ := f.prefs.LoadListened(context.Background(), f.lib.Entries())
		if !stored.Listened(url) {
			t.Error("expected toggle to be persisted")
		}
	})

	t.Run("fuzzy search", func(t *testing.T) {
		f := newFixture(t, repositories.NewMemoryStore(), th.Entries())
		got := decode[ListResponse](t, f.do(t, http.MethodGet, "/api/playlists?q=lnj&fuzzy=true", ""))
		if got.Count != 1 || got.Items[0].Name != "Late Night Jazz" {
			t.Errorf("unexpected fuzzy view %+v", got)
		}
	})

	t.Run("reverse persists order", func(t *testing.T) {
		f := newFixture(t, repositories.NewMemoryStore(), th.Entries())

		resp := decode[orderResponse](t, f.do(t, http.MethodPost, "/api/playlists/reverse", ""))
		want := models.Identities(library.Reverse(th.Entries()))
		if diff := deep.Equal(resp.Order, want); diff != nil {
			t.Error(diff)
		}
		stored, _ := f.prefs.LoadOrder(context.Background())
		if diff := deep.Equal(stored, want); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("sort", func(t *testing.T) {
		f := newFixture(t, repositories.NewMemoryStore(), th.Entries())

		resp := decode[orderResponse](t, f.do(t, http.MethodPost, "/api/playlists/sort", `{"descending": true}`))
		entries := th.Entries()
		want := []string{entries[1].URL, entries[0].URL, entries[2].URL}
		if diff := deep.Equal(resp.Order, want); diff != nil {
			t.Error(diff)
		}

		resp = decode[orderResponse](t, f.do(t, http.MethodPost, "/api/playlists/sort", ""))
		if resp.Order[0] != entries[2].URL {
			t.Errorf("expected shortest first, got %v", resp.Order)
		}
	})

	t.Run("sort with an empty chunked body", func(t *testing.T) {
		f := newFixture(t, repositories.NewMemoryStore(), th.Entries())

		req := httptest.NewRequest(http.MethodPost, "/api/playlists/sort", strings.NewReader(""))
		req.ContentLength = -1
		req.TransferEncoding = []string{"chunked"}
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		resp := decode[orderResponse](t, rec)
		if want := th.Entries()[2].URL; len(resp.Order) == 0 || resp.Order[0] != want {
			t.Errorf("expected shortest first, got %v", resp.Order)
		}
	})

	t.Run("theme toggles", func(t *testing.T) {
		f := newFixture(t, repositories.NewMemoryStore(), th.Entries())
		if got := decode[themeResponse](t, f.do(t, http.MethodPost, "/api/theme", "")); got.Theme != models.ThemeDark {
			t.Errorf("expected dark, got %s", got.Theme)
		}
		if f.lib.Theme() != models.ThemeDark {
			t.Error("expected library theme to change")
		}
	})

	t.Run("token capture", func(t *testing.T) {
		f := newFixture(t, repositories.NewMemoryStore(), th.Entries())

		rec := f.do(t, http.MethodPost, "/api/token", `{"fragment": "#access_token=abc&token_type=Bearer"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		token, err := f.prefs.LoadToken(context.Background())
		if err != nil || token.AccessToken != "abc" {
			t.Errorf("expected stored token, got %v %v", token, err)
		}
	})

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{"bad filter", http.MethodGet, "/api/playlists?filter=maybe", "", http.StatusBadRequest},
		{"bad limit", http.MethodGet, "/api/playlists?limit=-1", "", http.StatusBadRequest},
		{"bad fuzzy", http.MethodGet, "/api/playlists?fuzzy=perhaps", "", http.StatusBadRequest},
		{"toggle without url", http.MethodPost, "/api/playlists/toggle", `{}`, http.StatusBadRequest},
		{"toggle unknown url", http.MethodPost, "/api/playlists/toggle", `{"url": "https://nowhere"}`, http.StatusNotFound},
		{"toggle with GET", http.MethodGet, "/api/playlists/toggle", "", http.StatusMethodNotAllowed},
		{"bad sort body", http.MethodPost, "/api/playlists/sort", `{"descending": "yes"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, repositories.NewMemoryStore(), th.Entries())
			rec := f.do(t, tt.method, tt.target, tt.body)
			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}

	t.Run("storage failures are 500s", func(t *testing.T) {
		f := newFixture(t, th.FStore{}, th.Entries())

		rec := f.do(t, http.MethodPost, "/api/playlists/toggle", `{"url": "`+th.Entries()[0].URL+`"}`)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		if f.lib.IsListened(th.Entries()[0].URL) {
			t.Error("failed toggle must not change memory")
		}

		if rec := f.do(t, http.MethodPost, "/api/playlists/reverse", ""); rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})

	t.Run("health", func(t *testing.T) {
		f := newFixture(t, repositories.NewMemoryStore(), th.Entries())
		got := decode[map[string]any](t, f.do(t, http.MethodGet, "/health", ""))
		if got["status"] != "ok" || got["playlists"] != float64(3) {
			t.Errorf("unexpected health %v", got)
		}
	})
}

func TestRateLimit(t *testing.T) {
	prefs := repositories.NewPreferences(repositories.PreferencesOpts{})
	lib, _ := library.New(library.Opts{Persistence: prefs})
	_ = lib.Initialize(context.Background(), th.Entries())

	handler, err := New(Opts{Library: lib, Server: shared.ServerConfig{RateLimit: 0.001, RateBurst: 1}})
	if err != nil {
		t.Fatalf("failed to build handler: %v", err)
	}

	codes := []int{}
	for range 2 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/playlists", nil))
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("unexpected codes %v", codes)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("pages are not rate limited, got %d", rec.Code)
	}
}
