// package models defines the data model for the playlist library
package models

import "context"

// KeyValueStore defines string-keyed persistence for preferences.
//
// Implementations live in the repositories package (SQLite and in-memory).
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error) // Get returns the value or an error wrapping shared.ErrKeyNotFound
	Set(ctx context.Context, key, value string) error    // Set inserts or replaces the value for key
	Delete(ctx context.Context, key string) error        // Delete removes key; missing keys are not an error
	Keys(ctx context.Context) ([]string, error)          // Keys lists stored keys in ascending order
}
