package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/sortify/internal/models"
	"github.com/desertthunder/sortify/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestKeyValueStores(t *testing.T) {
	stores := map[string]func(t *testing.T) models.KeyValueStore{
		"KVRepository": func(t *testing.T) models.KeyValueStore {
			db := setupTestDB(t)
			t.Cleanup(func() { db.Close() })
			return NewKVRepository(db)
		},
		"MemoryStore": func(t *testing.T) models.KeyValueStore {
			return NewMemoryStore()
		},
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("Get missing key", func(t *testing.T) {
				store := newStore(t)
				_, err := store.Get(ctx, "results")
				if !errors.Is(err, shared.ErrKeyNotFound) {
					t.Errorf("expected ErrKeyNotFound, got %v", err)
				}
			})

			t.Run("Set then Get", func(t *testing.T) {
				store := newStore(t)
				if err := store.Set(ctx, "results", `{"a":1}`); err != nil {
					t.Fatalf("failed to set: %v", err)
				}

				got, err := store.Get(ctx, "results")
				if err != nil {
					t.Fatalf("failed to get: %v", err)
				}
				if got != `{"a":1}` {
					t.Errorf("expected stored value, got %q", got)
				}
			})

			t.Run("Set replaces", func(t *testing.T) {
				store := newStore(t)
				store.Set(ctx, "k", "one")
				if err := store.Set(ctx, "k", "two"); err != nil {
					t.Fatalf("failed to overwrite: %v", err)
				}

				got, _ := store.Get(ctx, "k")
				if got != "two" {
					t.Errorf("expected overwritten value, got %q", got)
				}
			})

			t.Run("Delete", func(t *testing.T) {
				store := newStore(t)
				store.Set(ctx, "k", "v")

				if err := store.Delete(ctx, "k"); err != nil {
					t.Fatalf("failed to delete: %v", err)
				}
				if _, err := store.Get(ctx, "k"); !errors.Is(err, shared.ErrKeyNotFound) {
					t.Errorf("expected key to be gone, got %v", err)
				}
				if err := store.Delete(ctx, "never-set"); err != nil {
					t.Errorf("deleting a missing key should succeed, got %v", err)
				}
			})

			t.Run("Keys sorted", func(t *testing.T) {
				store := newStore(t)
				for _, k := range []string{"results", "playlistsOrder", "listenedMap"} {
					store.Set(ctx, k, "x")
				}

				keys, err := store.Keys(ctx)
				if err != nil {
					t.Fatalf("failed to list keys: %v", err)
				}
				want := []string{"listenedMap", "playlistsOrder", "results"}
				if len(keys) != len(want) {
					t.Fatalf("expected %v, got %v", want, keys)
				}
				for i := range want {
					if keys[i] != want[i] {
						t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
					}
				}
			})
		})
	}
}

func TestKVRepository(t *testing.T) {
	t.Run("UpdatedAt tracks writes", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewKVRepository(db)
		stamp := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
		repo.now = func() time.Time { return stamp }

		if err := repo.Set(context.Background(), "results", "{}"); err != nil {
			t.Fatalf("failed to set: %v", err)
		}

		got, err := repo.UpdatedAt(context.Background(), "results")
		if err != nil {
			t.Fatalf("failed to read updated_at: %v", err)
		}
		if !got.Equal(stamp) {
			t.Errorf("expected %v, got %v", stamp, got)
		}

		if _, err := repo.UpdatedAt(context.Background(), "missing"); !errors.Is(err, shared.ErrKeyNotFound) {
			t.Errorf("expected ErrKeyNotFound, got %v", err)
		}
	})

	t.Run("closed database reports storage error", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewKVRepository(db)
		db.Close()

		if err := repo.Set(context.Background(), "k", "v"); !errors.Is(err, shared.ErrStorage) {
			t.Errorf("expected ErrStorage, got %v", err)
		}
		if _, err := repo.Get(context.Background(), "k"); !errors.Is(err, shared.ErrStorage) {
			t.Errorf("expected ErrStorage, got %v", err)
		}
	})
}

func TestMemoryStoreWrites(t *testing.T) {
	store := NewMemoryStore()
	store.Set(context.Background(), "a", "1")
	store.Set(context.Background(), "a", "2")

	if store.Writes() != 2 {
		t.Errorf("expected 2 writes, got %d", store.Writes())
	}
}
