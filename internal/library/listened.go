package library

import (
	"context"
	"fmt"

	"github.com/desertthunder/sortify/internal/models"
	"github.com/desertthunder/sortify/internal/shared"
)

// Persistence is the storage the library writes through. repositories.Preferences implements it.
type Persistence interface {
	LoadListened(ctx context.Context, entries []models.PlaylistEntry) (models.ListenedMap, error)
	SaveListened(ctx context.Context, entries []models.PlaylistEntry, listened models.ListenedMap) error
	LoadOrder(ctx context.Context) ([]string, error)
	SaveOrder(ctx context.Context, identities []string) error
}

// ListenedStore is the authoritative identity to listened mapping.
//
// It is not synchronized; [Library] serializes access to it.
type ListenedStore struct {
	persist Persistence
	flags   models.ListenedMap
}

// NewListenedStore creates an empty store writing through persist.
func NewListenedStore(persist Persistence) *ListenedStore {
	return &ListenedStore{persist: persist, flags: models.ListenedMap{}}
}

// Initialize replaces the in-memory flags with the stored ones for entries.
// Entries without a stored record read as false.
func (s *ListenedStore) Initialize(ctx context.Context, entries []models.PlaylistEntry) error {
	flags, err := s.persist.LoadListened(ctx, entries)
	if err != nil {
		return fmt.Errorf("failed to load listened state: %w", err)
	}
	if flags == nil {
		flags = models.ListenedMap{}
	}
	s.flags = flags
	return nil
}

// Toggle flips the flag for identity and persists the whole map before returning.
//
// entries supplies the record shape written to storage. If the write fails the flip is undone.
func (s *ListenedStore) Toggle(ctx context.Context, entries []models.PlaylistEntry, identity string) (bool, error) {
	if !contains(entries, identity) {
		return false, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, identity)
	}

	prev := s.flags[identity]
	s.flags[identity] = !prev

	if err := s.persist.SaveListened(ctx, entries, s.flags); err != nil {
		if prev {
			s.flags[identity] = true
		} else {
			delete(s.flags, identity)
		}
		return prev, fmt.Errorf("failed to persist listened state: %w", err)
	}
	return !prev, nil
}

// Listened reports the flag for identity.
func (s *ListenedStore) Listened(identity string) bool {
	return s.flags.Listened(identity)
}

// Snapshot returns a copy of the flags.
func (s *ListenedStore) Snapshot() models.ListenedMap {
	return s.flags.Clone()
}

func contains(entries []models.PlaylistEntry, identity string) bool {
	for _, e := range entries {
		if e.URL == identity {
			return true
		}
	}
	return false
}
