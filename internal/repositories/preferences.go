package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sortify/internal/models"
	"github.com/desertthunder/sortify/internal/shared"
	"golang.org/x/oauth2"
)

// Storage keys, kept compatible with the browser build.
const (
	KeyResults        = "results"
	KeyOrder          = "playlistsOrder"
	KeyLegacyListened = "listenedMap"
	DefaultTokenKey   = "spotify_access_token"
)

// resultRecord is one value of the "results" object.
type resultRecord struct {
	URL      string          `json:"url"`
	Image    string          `json:"image,omitempty"`
	Duration models.Duration `json:"duration"`
	Listened bool            `json:"listened"`
}

// PreferencesOpts contains configuration options for creating a [Preferences].
type PreferencesOpts struct {
	Store    models.KeyValueStore
	Logger   *log.Logger
	TokenKey string
}

// Preferences is the persistence adapter: every read and write of stored state goes through it.
type Preferences struct {
	store    models.KeyValueStore
	logger   *log.Logger
	tokenKey string
}

// NewPreferences creates a Preferences adapter over the given store.
func NewPreferences(opts PreferencesOpts) *Preferences {
	if opts.Store == nil {
		opts.Store = NewMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	if opts.TokenKey == "" {
		opts.TokenKey = DefaultTokenKey
	}
	return &Preferences{store: opts.Store, logger: opts.Logger, tokenKey: opts.TokenKey}
}

// read returns the raw value for key, reporting absence as ok=false.
func (p *Preferences) read(ctx context.Context, key string) (string, bool, error) {
	raw, err := p.store.Get(ctx, key)
	if errors.Is(err, shared.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return raw, true, nil
}

// LoadListened rebuilds the listened overlay for entries.
//
// The "results" key wins; without it the legacy "listenedMap" key is consulted, whose keys are
// identities or decimal indexes into entries. Records that match no entry are ignored and
// every entry without a record reads as false.
func (p *Preferences) LoadListened(ctx context.Context, entries []models.PlaylistEntry) (models.ListenedMap, error) {
	known := make(map[string]bool, len(entries))
	for _, e := range entries {
		known[e.URL] = true
	}
	listened := make(models.ListenedMap, len(entries))

	raw, ok, err := p.read(ctx, KeyResults)
	if err != nil {
		return nil, err
	}
	if ok {
		var results map[string]resultRecord
		if err := json.Unmarshal([]byte(raw), &results); err != nil {
			p.logger.Warn("ignoring malformed stored results", "key", KeyResults, "error", err)
			return listened, nil
		}
		for _, rec := range results {
			if known[rec.URL] && rec.Listened {
				listened[rec.URL] = true
			}
		}
		return listened, nil
	}

	raw, ok, err = p.read(ctx, KeyLegacyListened)
	if err != nil || !ok {
		return listened, err
	}

	var legacy map[string]bool
	if err := json.Unmarshal([]byte(raw), &legacy); err != nil {
		p.logger.Warn("ignoring malformed stored listened map", "key", KeyLegacyListened, "error", err)
		return listened, nil
	}
	for key, flag := range legacy {
		if !flag {
			continue
		}
		if known[key] {
			listened[key] = true
			continue
		}
		if idx, err := strconv.Atoi(key); err == nil && idx >= 0 && idx < len(entries) {
			listened[entries[idx].URL] = true
		}
	}
	return listened, nil
}

// SaveListened writes the "results" object: entries keyed by name, in order, with the listened overlay.
func (p *Preferences) SaveListened(ctx context.Context, entries []models.PlaylistEntry, listened models.ListenedMap) error {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(e.Name)
		if err != nil {
			return fmt.Errorf("failed to marshal name: %w", err)
		}
		rec, err := json.Marshal(resultRecord{
			URL:      e.URL,
			Image:    e.Image,
			Duration: e.Duration,
			Listened: listened.Listened(e.URL),
		})
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(rec)
	}
	buf.WriteByte('}')

	return p.store.Set(ctx, KeyResults, buf.String())
}

// LoadOrder returns the stored display order, or nil when none is stored.
func (p *Preferences) LoadOrder(ctx context.Context) ([]string, error) {
	raw, ok, err := p.read(ctx, KeyOrder)
	if err != nil || !ok {
		return nil, err
	}

	var order []string
	if err := json.Unmarshal([]byte(raw), &order); err != nil {
		p.logger.Warn("ignoring malformed stored order", "key", KeyOrder, "error", err)
		return nil, nil
	}
	return order, nil
}

// SaveOrder persists the display order as an array of identities.
func (p *Preferences) SaveOrder(ctx context.Context, identities []string) error {
	if identities == nil {
		identities = []string{}
	}
	data, err := json.Marshal(identities)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}
	return p.store.Set(ctx, KeyOrder, string(data))
}

// SaveToken stores the captured access token. Only the opaque token string is kept.
func (p *Preferences) SaveToken(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return shared.ErrNoAccessToken
	}
	return p.store.Set(ctx, p.tokenKey, token.AccessToken)
}

// LoadToken returns the stored access token or [shared.ErrNoAccessToken].
func (p *Preferences) LoadToken(ctx context.Context) (*oauth2.Token, error) {
	raw, ok, err := p.read(ctx, p.tokenKey)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return nil, shared.ErrNoAccessToken
	}
	return &oauth2.Token{AccessToken: raw}, nil
}

// timestamped is implemented by stores that record when each key was written.
type timestamped interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}

// TokenUpdatedAt reports when the token was last written. ok is false when no token is
// stored or the store keeps no timestamps.
func (p *Preferences) TokenUpdatedAt(ctx context.Context) (at time.Time, ok bool, err error) {
	ts, isTS := p.store.(timestamped)
	if !isTS {
		return time.Time{}, false, nil
	}

	at, err = ts.UpdatedAt(ctx, p.tokenKey)
	if errors.Is(err, shared.ErrKeyNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return at, true, nil
}

// Reset removes listened state and order, leaving the token.
func (p *Preferences) Reset(ctx context.Context) error {
	for _, key := range []string{KeyResults, KeyOrder, KeyLegacyListened} {
		if err := p.store.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
