// Package repositories implements the local persistence layer.
//
// Storage is a flat string-keyed table standing in for browser local storage:
//   - [KVRepository] : SQLite-backed [models.KeyValueStore] over the preferences table
//   - [MemoryStore] : map-backed [models.KeyValueStore] for tests and ephemeral runs
//
// [Preferences] is the single persistence adapter the rest of the application goes through.
// It owns the storage keys and their JSON encodings:
//   - "results" : catalog-shaped object with a per-entry listened overlay
//   - "playlistsOrder" : array of playlist identities in display order
//   - "listenedMap" : legacy identity (or index) to flag object, read-only
//   - "spotify_access_token" : captured access token, never transmitted
//
// Malformed stored values are treated as absent and logged, never returned as errors.
package repositories
