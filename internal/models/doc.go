// Package models defines the domain types shared across sortify.
//
// The package contains:
//   - [PlaylistEntry] : one saved playlist from the catalog, keyed by its URL
//   - [Duration] : total play time split into days, hours, minutes, seconds
//   - [ListenedMap] : identity to listened flag overlay
//   - [FilterMode], [SearchMode], [Theme] : view state enumerations
//
// Storage is abstracted behind [KeyValueStore], a string-keyed store standing in for browser local storage.
package models
