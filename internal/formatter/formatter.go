// package formatter provides functions to export the playlist collection to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/sortify/internal/models"
	"github.com/desertthunder/sortify/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatJSON     Format = "json"
)

// ParseFormat parses a format name or common file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want csv, markdown, text or json)", shared.ErrInvalidFlag, s)
	}
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatText:
		return "txt"
	default:
		return string(f)
	}
}

// ExportToCSV converts entries to CSV with columns: Name, URL, Duration, Seconds, Listened, Image
func ExportToCSV(entries []models.PlaylistEntry, listened models.ListenedMap) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Name", "URL", "Duration", "Seconds", "Listened", "Image"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, e := range entries {
		record := []string{
			e.Name,
			e.URL,
			e.Duration.String(),
			fmt.Sprintf("%d", int64(e.Duration.Total().Seconds())),
			fmt.Sprintf("%t", listened.Listened(e.URL)),
			e.Image,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders entries as a task list, checked when listened.
func ExportToMarkdown(title string, entries []models.PlaylistEntry, listened models.ListenedMap) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Playlists"
	}
	fmt.Fprintf(&buf, "# %s\n\n", title)

	count := 0
	for _, e := range entries {
		if listened.Listened(e.URL) {
			count++
		}
	}
	fmt.Fprintf(&buf, "**Playlists**: %d\n", len(entries))
	fmt.Fprintf(&buf, "**Listened**: %d\n\n", count)

	for _, e := range entries {
		mark := " "
		if listened.Listened(e.URL) {
			mark = "x"
		}
		fmt.Fprintf(&buf, "- [%s] [%s](%s) (%s)\n", mark, escapeMarkdown(e.Name), e.URL, e.Duration)
	}

	return buf.Bytes(), nil
}

var markdownEscaper = strings.NewReplacer(`[`, `\[`, `]`, `\]`, `*`, `\*`, `_`, `\_`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// ExportToText converts entries to plain text format
func ExportToText(entries []models.PlaylistEntry, listened models.ListenedMap) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlists: %d\n\n", len(entries))
	for i, e := range entries {
		mark := " "
		if listened.Listened(e.URL) {
			mark = "✓"
		}
		fmt.Fprintf(&buf, "%3d. [%s] %s - %s\n", i+1, mark, e.Name, e.Duration)
		fmt.Fprintf(&buf, "          %s\n", e.URL)
	}

	return buf.Bytes(), nil
}

type jsonRecord struct {
	URL      string          `json:"url"`
	Image    string          `json:"image,omitempty"`
	Duration models.Duration `json:"duration"`
	Listened bool            `json:"listened"`
}

// ExportToJSON writes entries in catalog shape, keyed by name in display order, so the
// output can be loaded back as a catalog.
func ExportToJSON(entries []models.PlaylistEntry, listened models.ListenedMap) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(e.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal name: %w", err)
		}
		rec, err := json.Marshal(jsonRecord{URL: e.URL, Image: e.Image, Duration: e.Duration, Listened: listened.Listened(e.URL)})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal entry: %w", err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(rec)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("failed to indent JSON: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Export renders entries in format f.
func Export(f Format, entries []models.PlaylistEntry, listened models.ListenedMap) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ExportToCSV(entries, listened)
	case FormatMarkdown:
		return ExportToMarkdown("", entries, listened)
	case FormatText:
		return ExportToText(entries, listened)
	case FormatJSON:
		return ExportToJSON(entries, listened)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// WriteExport writes entries to path in format f.
//
// Defaults to playlists.{ext} in the working directory.
func WriteExport(f Format, entries []models.PlaylistEntry, listened models.ListenedMap, path string) (string, error) {
	if path == "" {
		path = "playlists." + f.Extension()
	}

	data, err := Export(f, entries, listened)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", f, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
