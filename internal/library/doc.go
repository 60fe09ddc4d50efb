// Package library holds the application state for a loaded playlist collection.
//
// [Library] is the single state object owned by the composition root. It combines:
//   - the entries in display order (catalog order rearranged by any stored order)
//   - the [ListenedStore], the only place listened flags are read from or written to
//   - the session theme
//
// Every mutation is written through the injected [Persistence] before it returns, so a
// subsequent [Library.View] always observes it. [Filter] and [Reverse] are pure functions
// over entry slices and are usable on their own.
//
// Library is safe for concurrent use; the web server shares one instance across requests.
package library
