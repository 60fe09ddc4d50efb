// Package web serves the playlist collection over HTTP: a single embedded page and a small
// JSON API over one shared [library.Library].
//
// # Routes
//
//	GET  /, /Sortify, /Sortify/callback → the page
//	GET  /static/{path}                  → minified, gzipped embedded assets
//	GET  /api/settings                   → paging constants and the session theme
//	GET  /api/playlists                  → filtered, searched, limited view
//	POST /api/playlists/toggle           → flip one listened flag
//	POST /api/playlists/reverse          → reverse and persist the order
//	POST /api/playlists/sort             → order by duration and persist
//	POST /api/theme                      → toggle light and dark
//	POST /api/token                      → capture an access token from a redirect fragment
//	GET  /health                         → liveness
//
// The page does its own scroll paging: it asks for the first page_size entries and raises
// the limit by page_size when the viewport gets within threshold pixels of the end.
package web

import (
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sortify/internal/library"
	"github.com/desertthunder/sortify/internal/server"
	"github.com/desertthunder/sortify/internal/shared"
)

// Opts contains configuration options for [New].
type Opts struct {
	Library *library.Library
	Tokens  server.TokenStore
	Logger  *log.Logger
	UI      shared.UIConfig
	Server  shared.ServerConfig
	// Capture, when set, is used instead of a fresh [server.CaptureHandler].
	Capture *server.CaptureHandler
}

// New builds the web application's router.
func New(opts Opts) (*server.BasicRouter, error) {
	if opts.Library == nil {
		return nil, shared.ErrMissingArgument
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	assets, err := NewAssets(opts.Logger)
	if err != nil {
		return nil, err
	}

	capture := opts.Capture
	if capture == nil && opts.Tokens != nil {
		capture = server.NewCaptureHandler(opts.Tokens, opts.Logger)
	}

	api := NewAPI(opts.Library, opts.UI, opts.Logger)

	router := server.NewBasicRouter()
	router.Use(
		server.Recover(opts.Logger),
		server.RequestID(),
		server.Logging(opts.Logger),
	)

	router.HandleFunc(http.MethodGet, "/health", api.Health)

	for _, path := range []string{"/{$}", "/Sortify", "/Sortify/callback"} {
		router.Handle(http.MethodGet, path, assets.Page())
	}
	router.Handle(http.MethodGet, "/static/", http.StripPrefix("/static/", assets))

	router.Use(server.RateLimit(server.NewLimiter(opts.Server.RateLimit, opts.Server.RateBurst)))
	router.Handler(api)
	if capture != nil {
		router.Handler(capture)
	}

	return router, nil
}
