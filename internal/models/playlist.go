package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/sortify/internal/shared"
)

// Duration is the total play time of a playlist as stored in the catalog.
type Duration struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// DurationFromMillis splits a millisecond total into days, hours, minutes and seconds.
// Sub-second remainders are truncated.
func DurationFromMillis(ms int64) Duration {
	if ms < 0 {
		ms = 0
	}
	secs := ms / 1000
	minutes, secs := secs/60, secs%60
	hours, minutes := minutes/60, minutes%60
	days, hours := hours/24, hours%24
	return Duration{Days: int(days), Hours: int(hours), Minutes: int(minutes), Seconds: int(secs)}
}

// Total returns the duration as a [time.Duration].
func (d Duration) Total() time.Duration {
	return time.Duration(d.Days)*24*time.Hour +
		time.Duration(d.Hours)*time.Hour +
		time.Duration(d.Minutes)*time.Minute +
		time.Duration(d.Seconds)*time.Second
}

// Validate rejects negative components.
func (d Duration) Validate() error {
	if d.Days < 0 || d.Hours < 0 || d.Minutes < 0 || d.Seconds < 0 {
		return fmt.Errorf("%w: negative duration component", shared.ErrInvalidInput)
	}
	return nil
}

func (d Duration) String() string {
	return fmt.Sprintf("%d days, %d hours, %d minutes, %d seconds", d.Days, d.Hours, d.Minutes, d.Seconds)
}

// PlaylistEntry is a single saved playlist. URL is the identity and the only join key.
type PlaylistEntry struct {
	URL      string   `json:"url"`
	Name     string   `json:"name"`
	Image    string   `json:"image,omitempty"`
	Duration Duration `json:"duration"`
}

// Validate checks that the entry has a usable identity and a sane duration.
func (p PlaylistEntry) Validate() error {
	if strings.TrimSpace(p.URL) == "" {
		return fmt.Errorf("%w: playlist %q has no url", shared.ErrInvalidInput, p.Name)
	}
	return p.Duration.Validate()
}

// Identities returns the URLs of entries, in order.
func Identities(entries []PlaylistEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.URL
	}
	return ids
}

// ListenedMap maps playlist identity to its listened flag. Absent keys read as false.
type ListenedMap map[string]bool

// Listened reports the flag for identity.
func (m ListenedMap) Listened(identity string) bool {
	return m[identity]
}

// Clone returns an independent copy.
func (m ListenedMap) Clone() ListenedMap {
	out := make(ListenedMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// FilterMode narrows the list by listened state.
type FilterMode string

const (
	FilterAll         FilterMode = "all"
	FilterSelected    FilterMode = "selected"
	FilterNotSelected FilterMode = "not-selected"
)

// ParseFilterMode parses a filter name. The empty string means [FilterAll].
func ParseFilterMode(s string) (FilterMode, error) {
	switch FilterMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterSelected, "listened":
		return FilterSelected, nil
	case FilterNotSelected, "unlistened":
		return FilterNotSelected, nil
	default:
		return "", fmt.Errorf("%w: unknown filter %q (want all, selected or not-selected)", shared.ErrInvalidArgument, s)
	}
}

// Next cycles all → selected → not-selected → all.
func (f FilterMode) Next() FilterMode {
	switch f {
	case FilterAll:
		return FilterSelected
	case FilterSelected:
		return FilterNotSelected
	default:
		return FilterAll
	}
}

// SearchMode selects how the search term is matched against names.
type SearchMode int

const (
	SearchSubstring SearchMode = iota // case-insensitive substring
	SearchFuzzy                       // case-insensitive subsequence
)

func (s SearchMode) String() string {
	if s == SearchFuzzy {
		return "fuzzy"
	}
	return "substring"
}

// Theme is the presentational color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme parses "light" or "dark".
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	default:
		return "", fmt.Errorf("%w: unknown theme %q", shared.ErrInvalidArgument, s)
	}
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
