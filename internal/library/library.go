package library

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sortify/internal/catalog"
	"github.com/desertthunder/sortify/internal/models"
	"github.com/desertthunder/sortify/internal/shared"
)

// Opts contains configuration options for creating a [Library].
type Opts struct {
	Persistence Persistence
	Logger      *log.Logger
	Theme       models.Theme
}

// Library owns the display order, listened state and theme of one session.
type Library struct {
	mu      sync.RWMutex
	persist Persistence
	logger  *log.Logger

	catalog []models.PlaylistEntry
	entries []models.PlaylistEntry
	store   *ListenedStore
	theme   models.Theme
}

// New creates an empty Library. Call [Library.Initialize] before use.
func New(opts Opts) (*Library, error) {
	if opts.Persistence == nil {
		return nil, fmt.Errorf("%w: library requires a persistence adapter", shared.ErrMissingArgument)
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	if opts.Theme == "" {
		opts.Theme = models.ThemeLight
	}

	return &Library{
		persist: opts.Persistence,
		logger:  opts.Logger,
		store:   NewListenedStore(opts.Persistence),
		theme:   opts.Theme,
	}, nil
}

// Initialize loads the stored order and listened state for entries.
//
// entries is the catalog in file order. A stored order replaces it; see [catalog.ApplyOrder].
func (l *Library) Initialize(ctx context.Context, entries []models.PlaylistEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	order, err := l.persist.LoadOrder(ctx)
	if err != nil {
		return fmt.Errorf("failed to load order: %w", err)
	}

	display := catalog.ApplyOrder(entries, order)
	if err := l.store.Initialize(ctx, display); err != nil {
		return err
	}

	l.catalog = append([]models.PlaylistEntry(nil), entries...)
	l.entries = display
	l.logger.Debug("library initialized", "catalog", len(entries), "displayed", len(display), "stored_order", len(order) > 0)
	return nil
}

// Entries returns a copy of the entries in display order.
func (l *Library) Entries() []models.PlaylistEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]models.PlaylistEntry(nil), l.entries...)
}

// Len returns the number of displayed entries.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Listened returns a copy of the listened flags.
func (l *Library) Listened() models.ListenedMap {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.Snapshot()
}

// IsListened reports the flag for identity.
func (l *Library) IsListened(identity string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store.Listened(identity)
}

// Toggle flips the listened flag for identity and persists it, returning the new value.
func (l *Library) Toggle(ctx context.Context, identity string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	listened, err := l.store.Toggle(ctx, l.entries, identity)
	if err != nil {
		return listened, err
	}
	l.logger.Debug("toggled listened", "url", identity, "listened", listened)
	return listened, nil
}

// Reverse reverses the display order and persists it.
func (l *Library) Reverse(ctx context.Context) ([]models.PlaylistEntry, error) {
	return l.reorder(ctx, Reverse)
}

// SortByDuration orders the display by total duration and persists it.
func (l *Library) SortByDuration(ctx context.Context, descending bool) ([]models.PlaylistEntry, error) {
	return l.reorder(ctx, func(entries []models.PlaylistEntry) []models.PlaylistEntry {
		return catalog.SortByDuration(entries, descending)
	})
}

// reorder applies fn to the display order. The new order is kept only once it is stored.
func (l *Library) reorder(ctx context.Context, fn func([]models.PlaylistEntry) []models.PlaylistEntry) ([]models.PlaylistEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := fn(l.entries)
	if err := l.persist.SaveOrder(ctx, models.Identities(next)); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}
	l.entries = next
	return append([]models.PlaylistEntry(nil), next...), nil
}

// View returns the entries that match q, in display order.
func (l *Library) View(q Query) []models.PlaylistEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return FilterWith(l.entries, l.store.flags, q)
}

// Lookup finds an entry by identity, falling back to a case-insensitive name match.
func (l *Library) Lookup(identityOrName string) (models.PlaylistEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, e := range l.entries {
		if e.URL == identityOrName {
			return e, nil
		}
	}
	for _, e := range l.entries {
		if strings.EqualFold(e.Name, identityOrName) {
			return e, nil
		}
	}
	return models.PlaylistEntry{}, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, identityOrName)
}

// Theme returns the session theme.
func (l *Library) Theme() models.Theme {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.theme
}

// ToggleTheme switches between light and dark and returns the new theme. It is not persisted.
func (l *Library) ToggleTheme() models.Theme {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.theme = l.theme.Toggle()
	return l.theme
}

type resetter interface {
	Reset(ctx context.Context) error
}

// Reset clears stored listened state and order and restores catalog order.
func (l *Library) Reset(ctx context.Context) error {
	r, ok := l.persist.(resetter)
	if !ok {
		return fmt.Errorf("%w: persistence cannot be reset", shared.ErrNotImplemented)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := r.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset preferences: %w", err)
	}
	l.entries = append([]models.PlaylistEntry(nil), l.catalog...)
	l.store.flags = models.ListenedMap{}
	return nil
}
