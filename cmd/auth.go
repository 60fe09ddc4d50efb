package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/desertthunder/sortify/internal/server"
	"github.com/desertthunder/sortify/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultCaptureTimeout = 2 * time.Minute

// tokenStatus reports whether a token is stored. The token itself is never printed.
type tokenStatus struct {
	Stored  bool       `json:"stored"`
	Key     string     `json:"key"`
	Updated *time.Time `json:"updated,omitempty"`
}

// AuthCapture stores the access token carried in a redirect URL or fragment.
func (r *Runner) AuthCapture(ctx context.Context, cmd *cli.Command) error {
	raw := strings.TrimSpace(cmd.StringArg("url"))
	if raw == "" {
		return fmt.Errorf("%w: callback url or fragment", shared.ErrMissingArgument)
	}

	token, err := shared.ParseAccessToken(raw, r.now())
	if err != nil {
		return err
	}

	prefs, err := r.preferences()
	if err != nil {
		return err
	}
	if err := prefs.SaveToken(ctx, token); err != nil {
		return fmt.Errorf("failed to store access token: %w", err)
	}

	r.logger.Info("access token stored", "token_type", token.TokenType)
	if !token.Expiry.IsZero() {
		return r.writePlain("✓ Access token stored (expires %s)\n", token.Expiry.Format(time.RFC3339))
	}
	return r.writePlain("✓ Access token stored\n")
}

// AuthStatus reports whether an access token is stored.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	prefs, err := r.preferences()
	if err != nil {
		return err
	}

	status := tokenStatus{Key: r.config.Auth.TokenKey}
	if _, err := prefs.LoadToken(ctx); err == nil {
		status.Stored = true
	} else if !errors.Is(err, shared.ErrNoAccessToken) {
		return err
	}

	if status.Stored {
		at, ok, err := prefs.TokenUpdatedAt(ctx)
		if err != nil {
			return err
		}
		if ok {
			status.Updated = &at
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, cmd.Bool("pretty"))
	}
	if status.Updated != nil {
		return r.writePlain("Authentication: ✓ Access token stored (%s)\n", status.Updated.Local().Format(time.RFC3339))
	}
	if status.Stored {
		return r.writePlain("Authentication: ✓ Access token stored\n")
	}
	return r.writePlain("Authentication: ✗ No access token stored\n")
}

// AuthListen serves the web app and waits for the callback page to post a token.
func (r *Runner) AuthListen(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.library(ctx)
	if err != nil {
		return err
	}
	prefs, err := r.preferences()
	if err != nil {
		return err
	}

	capture := server.NewCaptureHandler(prefs, r.logger)
	srv, err := r.newServer(lib, prefs, capture, r.config.Server.Addr())
	if err != nil {
		return err
	}

	serveCtx, stop := context.WithCancel(ctx)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Serve(serveCtx, srv, r.logger)
	}()

	r.writePlainln("Waiting for redirect on http://%s/Sortify/callback", srv.Addr)

	timeout := cmd.Duration("timeout")
	if timeout <= 0 {
		timeout = defaultCaptureTimeout
	}

	var result server.CaptureResult
	select {
	case result = <-capture.Result():
	case err := <-serverErr:
		if err == nil {
			err = http.ErrServerClosed
		}
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	case <-time.After(timeout):
		stop()
		<-serverErr
		return fmt.Errorf("timed out after %s waiting for a token", timeout)
	case <-ctx.Done():
		<-serverErr
		return ctx.Err()
	}

	stop()
	if err := <-serverErr; err != nil {
		r.logger.Warn("server did not shut down cleanly", "error", err)
	}

	if err := result.Error(); err != nil {
		return fmt.Errorf("token capture failed: %w", err)
	}
	return r.writePlain("✓ Access token stored\n")
}
