// package catalog turns the static playlist record into an ordered list of entries.
//
// The catalog is a JSON object keyed by playlist name:
//
//	{"Late Night Jazz": {"url": "...", "image": "...", "duration": {"days": 0, ...}, "listened": false}}
//
// Key order is significant and preserved. The optional "listened" field is ignored; listened
// state lives in storage.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sortify/internal/models"
	"github.com/desertthunder/sortify/internal/shared"
)

//go:embed results.json
var bundled []byte

// record is one value of the catalog object.
type record struct {
	URL      string          `json:"url"`
	Image    *string         `json:"image"`
	Duration models.Duration `json:"duration"`
	// DurationMS is the raw total some exports carry instead of duration.
	DurationMS *int64 `json:"duration_ms,omitempty"`
	Listened   *bool  `json:"listened,omitempty"`
}

// Loader decodes catalogs and reports skipped entries through its logger.
type Loader struct {
	logger *log.Logger
}

// NewLoader creates a Loader. A nil logger discards diagnostics.
func NewLoader(logger *log.Logger) *Loader {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Loader{logger: logger}
}

// LoadDefault decodes the catalog bundled into the binary.
func (l *Loader) LoadDefault() ([]models.PlaylistEntry, error) {
	return l.Load(bytes.NewReader(bundled))
}

// LoadFile decodes the catalog at path, or the bundled one when path is empty.
func (l *Loader) LoadFile(path string) ([]models.PlaylistEntry, error) {
	if path == "" {
		return l.LoadDefault()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	return l.Load(f)
}

// Load decodes a catalog object in key order.
//
// Entries that fail to decode, lack a url, repeat an earlier url or name, or carry a
// negative duration are skipped with a warning. Only a malformed top-level document is an error.
func (l *Loader) Load(r io.Reader) ([]models.PlaylistEntry, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidCatalog, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object keyed by playlist name", shared.ErrInvalidCatalog)
	}

	var entries []models.PlaylistEntry
	seen := make(map[string]string)
	names := make(map[string]bool)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidCatalog, err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected token %v", shared.ErrInvalidCatalog, tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: value of %q: %v", shared.ErrInvalidCatalog, name, err)
		}

		// stored listened state is keyed by name
		if names[name] {
			l.logger.Warn("skipping repeated catalog name", "name", name)
			continue
		}

		entry, err := decodeEntry(name, raw)
		if err != nil {
			l.logger.Warn("skipping catalog entry", "name", name, "error", err)
			continue
		}
		if first, dup := seen[entry.URL]; dup {
			l.logger.Warn("skipping duplicate catalog entry", "name", name, "url", entry.URL, "first", first)
			continue
		}
		seen[entry.URL] = name
		names[name] = true
		entries = append(entries, entry)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidCatalog, err)
	}

	l.logger.Debug("catalog loaded", "entries", len(entries))
	return entries, nil
}

func decodeEntry(name string, raw json.RawMessage) (models.PlaylistEntry, error) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return models.PlaylistEntry{}, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	entry := models.PlaylistEntry{
		URL:      rec.URL,
		Name:     name,
		Duration: rec.Duration,
	}
	if rec.Image != nil {
		entry.Image = *rec.Image
	}
	if rec.DurationMS != nil && entry.Duration == (models.Duration{}) {
		if *rec.DurationMS < 0 {
			return models.PlaylistEntry{}, fmt.Errorf("%w: negative duration_ms", shared.ErrInvalidInput)
		}
		entry.Duration = models.DurationFromMillis(*rec.DurationMS)
	}

	if err := entry.Validate(); err != nil {
		return models.PlaylistEntry{}, err
	}
	return entry, nil
}

// ApplyOrder rearranges entries to follow order.
//
// Identities in order that are not in entries are skipped, and entries missing from order
// are not appended. An empty order leaves entries as they are. The input is not modified.
func ApplyOrder(entries []models.PlaylistEntry, order []string) []models.PlaylistEntry {
	if len(order) == 0 {
		return append([]models.PlaylistEntry(nil), entries...)
	}

	byURL := make(map[string]models.PlaylistEntry, len(entries))
	for _, e := range entries {
		byURL[e.URL] = e
	}

	out := make([]models.PlaylistEntry, 0, len(order))
	placed := make(map[string]bool, len(order))
	for _, id := range order {
		e, ok := byURL[id]
		if !ok || placed[id] {
			continue
		}
		placed[id] = true
		out = append(out, e)
	}
	return out
}

// SortByDuration returns entries ordered by total duration, shortest first unless descending.
// Ties keep their relative order.
func SortByDuration(entries []models.PlaylistEntry, descending bool) []models.PlaylistEntry {
	out := append([]models.PlaylistEntry(nil), entries...)
	sort.SliceStable(out, func(i, j int) bool {
		if descending {
			return out[i].Duration.Total() > out[j].Duration.Total()
		}
		return out[i].Duration.Total() < out[j].Duration.Total()
	})
	return out
}
