package web

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sortify/internal/library"
	"github.com/desertthunder/sortify/internal/models"
	"github.com/desertthunder/sortify/internal/server"
	"github.com/desertthunder/sortify/internal/shared"
)

const maxBody = 4 << 10

// Item is one playlist in an API response.
type Item struct {
	URL          string          `json:"url"`
	Name         string          `json:"name"`
	Image        string          `json:"image,omitempty"`
	Duration     models.Duration `json:"duration"`
	DurationText string          `json:"duration_text"`
	Listened     bool            `json:"listened"`
}

// ListResponse is the body of GET /api/playlists.
type ListResponse struct {
	Total    int    `json:"total"`
	Count    int    `json:"count"`
	Listened int    `json:"listened"`
	Items    []Item `json:"items"`
}

// Settings is the body of GET /api/settings.
type Settings struct {
	PageSize       int          `json:"page_size"`
	Threshold      int          `json:"threshold"`
	LoadDelayMS    int          `json:"load_delay_ms"`
	ReverseDelayMS int          `json:"reverse_delay_ms"`
	Theme          models.Theme `json:"theme"`
}

type toggleRequest struct {
	URL string `json:"url"`
}

type toggleResponse struct {
	URL      string `json:"url"`
	Listened bool   `json:"listened"`
}

type orderResponse struct {
	Order []string `json:"order"`
}

type sortRequest struct {
	Descending bool `json:"descending"`
}

type themeResponse struct {
	Theme models.Theme `json:"theme"`
}

// API exposes a [library.Library] as JSON.
// Implements the server.Handler interface.
type API struct {
	lib    *library.Library
	ui     shared.UIConfig
	logger *log.Logger
	mux    *http.ServeMux
}

// NewAPI creates the JSON API.
func NewAPI(lib *library.Library, ui shared.UIConfig, logger *log.Logger) *API {
	a := &API{lib: lib, ui: ui, logger: logger, mux: http.NewServeMux()}
	a.mux.HandleFunc("GET /api/settings", a.Settings)
	a.mux.HandleFunc("GET /api/playlists", a.List)
	a.mux.HandleFunc("POST /api/playlists/toggle", a.Toggle)
	a.mux.HandleFunc("POST /api/playlists/reverse", a.Reverse)
	a.mux.HandleFunc("POST /api/playlists/sort", a.Sort)
	a.mux.HandleFunc("POST /api/theme", a.Theme)
	return a
}

// Routes returns the HTTP routes this handler serves.
func (a *API) Routes() []string {
	return []string{"/api/settings", "/api/playlists", "/api/playlists/", "/api/theme"}
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// Health reports liveness and the number of displayed playlists.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	server.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok", "playlists": a.lib.Len()})
}

// Settings reports the paging constants and the session theme.
func (a *API) Settings(w http.ResponseWriter, r *http.Request) {
	server.WriteJSON(w, http.StatusOK, Settings{
		PageSize:       a.ui.PageSize,
		Threshold:      a.ui.Threshold,
		LoadDelayMS:    a.ui.LoadDelayMS,
		ReverseDelayMS: a.ui.ReverseDelayMS,
		Theme:          a.lib.Theme(),
	})
}

// List serves GET /api/playlists?filter=&q=&limit=&fuzzy=.
//
// total counts every match; items holds at most limit of them. limit=0 or absent means all.
func (a *API) List(w http.ResponseWriter, r *http.Request) {
	q, limit, err := parseListQuery(r)
	if err != nil {
		server.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	matches := a.lib.View(q)
	listened := a.lib.Listened()

	shown := matches
	if limit > 0 && limit < len(shown) {
		shown = shown[:limit]
	}

	resp := ListResponse{Total: len(matches), Count: len(shown), Items: make([]Item, 0, len(shown))}
	for _, e := range matches {
		if listened.Listened(e.URL) {
			resp.Listened++
		}
	}
	for _, e := range shown {
		resp.Items = append(resp.Items, Item{
			URL:          e.URL,
			Name:         e.Name,
			Image:        e.Image,
			Duration:     e.Duration,
			DurationText: e.Duration.String(),
			Listened:     listened.Listened(e.URL),
		})
	}
	server.WriteJSON(w, http.StatusOK, resp)
}

func parseListQuery(r *http.Request) (library.Query, int, error) {
	values := r.URL.Query()

	mode, err := models.ParseFilterMode(values.Get("filter"))
	if err != nil {
		return library.Query{}, 0, err
	}

	q := library.Query{Mode: mode, Term: values.Get("q")}
	if raw := values.Get("fuzzy"); raw != "" {
		fuzzy, err := strconv.ParseBool(raw)
		if err != nil {
			return library.Query{}, 0, errors.New("fuzzy must be a boolean")
		}
		if fuzzy {
			q.Search = models.SearchFuzzy
		}
	}

	limit := 0
	if raw := values.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return library.Query{}, 0, errors.New("limit must be a non-negative integer")
		}
	}
	return q, limit, nil
}

// Toggle serves POST /api/playlists/toggle.
func (a *API) Toggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := server.DecodeJSON(w, r, maxBody, &req); err != nil || req.URL == "" {
		server.WriteError(w, http.StatusBadRequest, "body must be {\"url\": \"...\"}")
		return
	}

	listened, err := a.lib.Toggle(r.Context(), req.URL)
	if err != nil {
		a.fail(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, toggleResponse{URL: req.URL, Listened: listened})
}

// Reverse serves POST /api/playlists/reverse.
func (a *API) Reverse(w http.ResponseWriter, r *http.Request) {
	entries, err := a.lib.Reverse(r.Context())
	if err != nil {
		a.fail(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, orderResponse{Order: models.Identities(entries)})
}

// Sort serves POST /api/playlists/sort. An empty body sorts shortest first.
func (a *API) Sort(w http.ResponseWriter, r *http.Request) {
	var req sortRequest
	if err := server.DecodeJSON(w, r, maxBody, &req); err != nil && !errors.Is(err, io.EOF) {
		server.WriteError(w, http.StatusBadRequest, "body must be {\"descending\": bool}")
		return
	}

	entries, err := a.lib.SortByDuration(r.Context(), req.Descending)
	if err != nil {
		a.fail(w, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, orderResponse{Order: models.Identities(entries)})
}

// Theme serves POST /api/theme.
func (a *API) Theme(w http.ResponseWriter, r *http.Request) {
	server.WriteJSON(w, http.StatusOK, themeResponse{Theme: a.lib.ToggleTheme()})
}

func (a *API) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, shared.ErrPlaylistNotFound) {
		server.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	a.logger.Error("request failed", "error", err)
	server.WriteError(w, http.StatusInternalServerError, "failed to save preferences")
}
