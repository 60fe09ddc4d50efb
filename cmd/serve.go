package main

import (
	"context"
	"net/http"
	"time"

	"github.com/desertthunder/sortify/internal/library"
	"github.com/desertthunder/sortify/internal/server"
	"github.com/desertthunder/sortify/internal/web"
	"github.com/urfave/cli/v3"
)

// newServer builds the web application's HTTP server. capture may be nil.
func (r *Runner) newServer(lib *library.Library, tokens server.TokenStore, capture *server.CaptureHandler, addr string) (*http.Server, error) {
	router, err := web.New(web.Opts{
		Library: lib,
		Tokens:  tokens,
		Logger:  r.logger,
		UI:      r.config.UI,
		Server:  r.config.Server,
		Capture: capture,
	})
	if err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Serve runs the web interface until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.library(ctx)
	if err != nil {
		return err
	}
	prefs, err := r.preferences()
	if err != nil {
		return err
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	srv, err := r.newServer(lib, prefs, nil, addr)
	if err != nil {
		return err
	}

	r.writePlain("Serving %d playlists on http://%s\n", lib.Len(), addr)
	return server.Serve(ctx, srv, r.logger)
}
