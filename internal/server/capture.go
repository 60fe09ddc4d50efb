package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sortify/internal/shared"
	"golang.org/x/oauth2"
)

// TokenStore persists a captured access token.
type TokenStore interface {
	SaveToken(ctx context.Context, token *oauth2.Token) error
}

// CaptureResult contains the result of a token capture.
type CaptureResult struct {
	Token *oauth2.Token
	err   error
}

func (c *CaptureResult) Error() error {
	return c.err
}

type captureRequest struct {
	Fragment string `json:"fragment"`
}

// CaptureResponse reports a stored token without echoing it.
type CaptureResponse struct {
	Stored    bool       `json:"stored"`
	TokenType string     `json:"token_type,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// CaptureHandler stores the access token found in a posted redirect fragment.
// Implements the Handler interface for registration with a Router.
type CaptureHandler struct {
	store      TokenStore
	logger     *log.Logger
	now        func() time.Time
	resultChan chan CaptureResult
	once       sync.Once
}

// NewCaptureHandler creates a capture handler writing to store.
func NewCaptureHandler(store TokenStore, logger *log.Logger) *CaptureHandler {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &CaptureHandler{
		store:      store,
		logger:     logger,
		now:        time.Now,
		resultChan: make(chan CaptureResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CaptureHandler) Routes() []string {
	return []string{"POST /api/token"}
}

// ServeHTTP handles a capture request.
//
// A body without an access token is a 204: the page posts whatever fragment it was loaded
// with, and most loads carry none.
func (h *CaptureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req captureRequest
	if err := DecodeJSON(w, r, 8<<10, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := shared.ParseAccessToken(req.Fragment, h.now())
	if errors.Is(err, shared.ErrNoAccessToken) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		h.Send(CaptureResult{err: err})
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.SaveToken(r.Context(), token); err != nil {
		h.logger.Error("failed to store access token", "error", err)
		h.Send(CaptureResult{err: err})
		WriteError(w, http.StatusInternalServerError, "failed to store token")
		return
	}

	h.logger.Info("access token captured", "token_type", token.TokenType, "expires", token.Expiry)
	h.Send(CaptureResult{Token: token})

	resp := CaptureResponse{Stored: true, TokenType: token.TokenType}
	if !token.Expiry.IsZero() {
		resp.ExpiresAt = &token.Expiry
	}
	WriteJSON(w, http.StatusOK, resp)
}

// Send sends the capture result through the channel (only once).
func (h *CaptureHandler) Send(result CaptureResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving the first capture.
//
// Channel will receive exactly one result and then be closed.
func (h *CaptureHandler) Result() <-chan CaptureResult {
	return h.resultChan
}
