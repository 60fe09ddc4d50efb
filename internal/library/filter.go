package library

import (
	"strings"

	"github.com/desertthunder/sortify/internal/models"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Query describes one view over the collection.
type Query struct {
	Mode   models.FilterMode
	Term   string
	Search models.SearchMode
}

// Filter narrows entries by listened state, then by a case-insensitive substring of the name.
// An empty term matches everything. The result is a new slice; entries is not modified.
func Filter(entries []models.PlaylistEntry, listened models.ListenedMap, mode models.FilterMode, term string) []models.PlaylistEntry {
	return FilterWith(entries, listened, Query{Mode: mode, Term: term})
}

// FilterWith is [Filter] with a selectable search mode.
func FilterWith(entries []models.PlaylistEntry, listened models.ListenedMap, q Query) []models.PlaylistEntry {
	match := matcher(q.Term, q.Search)
	out := make([]models.PlaylistEntry, 0, len(entries))
	for _, e := range entries {
		if !keep(q.Mode, listened.Listened(e.URL)) {
			continue
		}
		if !match(e.Name) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func keep(mode models.FilterMode, listened bool) bool {
	switch mode {
	case models.FilterSelected:
		return listened
	case models.FilterNotSelected:
		return !listened
	default:
		return true
	}
}

func matcher(term string, mode models.SearchMode) func(string) bool {
	if term == "" {
		return func(string) bool { return true }
	}
	if mode == models.SearchFuzzy {
		return func(name string) bool { return fuzzy.MatchFold(term, name) }
	}
	needle := strings.ToLower(term)
	return func(name string) bool { return strings.Contains(strings.ToLower(name), needle) }
}

// Reverse returns entries in reverse order as a new slice.
func Reverse(entries []models.PlaylistEntry) []models.PlaylistEntry {
	out := make([]models.PlaylistEntry, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out
}
