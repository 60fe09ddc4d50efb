package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/sortify/internal/formatter"
	"github.com/desertthunder/sortify/internal/library"
	"github.com/desertthunder/sortify/internal/models"
	"github.com/desertthunder/sortify/internal/shared"
	"github.com/urfave/cli/v3"
)

// playlistView is the JSON shape of one listed playlist.
type playlistView struct {
	Name     string          `json:"name"`
	URL      string          `json:"url"`
	Image    string          `json:"image,omitempty"`
	Duration models.Duration `json:"duration"`
	Listened bool            `json:"listened"`
}

// queryFromFlags builds a [library.Query] from --filter, --search and --fuzzy.
func queryFromFlags(cmd *cli.Command) (library.Query, error) {
	mode, err := models.ParseFilterMode(cmd.String("filter"))
	if err != nil {
		return library.Query{}, fmt.Errorf("%w: --filter: %v", shared.ErrInvalidFlag, err)
	}
	q := library.Query{Mode: mode, Term: cmd.String("search")}
	if cmd.Bool("fuzzy") {
		q.Search = models.SearchFuzzy
	}
	return q, nil
}

// PlaylistsList prints the collection in display order, narrowed by filter and search.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}
	limit := int(cmd.Int("limit"))
	if limit < 0 {
		return fmt.Errorf("%w: --limit must not be negative", shared.ErrInvalidFlag)
	}

	lib, err := r.library(ctx)
	if err != nil {
		return err
	}

	matches := lib.View(q)
	total := len(matches)
	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}
	listened := lib.Listened()

	if cmd.Bool("json") {
		views := make([]playlistView, len(matches))
		for i, e := range matches {
			views[i] = playlistView{Name: e.Name, URL: e.URL, Image: e.Image, Duration: e.Duration, Listened: listened.Listened(e.URL)}
		}
		return r.writeJSON(views, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Playlists (%d of %d, filter: %s)", len(matches), total, q.Mode))
	for _, e := range matches {
		mark := " "
		if listened.Listened(e.URL) {
			mark = "✓"
		}
		if err := r.writePlain("[%s] %s\n    %s  %s\n", mark, e.Name, e.Duration, e.URL); err != nil {
			return err
		}
	}
	if len(matches) == 0 {
		return r.writePlain("No playlists match.\n")
	}
	return nil
}

// lookupArg resolves the positional playlist argument.
func (r *Runner) lookupArg(ctx context.Context, cmd *cli.Command) (*library.Library, models.PlaylistEntry, error) {
	arg := strings.TrimSpace(cmd.StringArg("playlist"))
	if arg == "" {
		return nil, models.PlaylistEntry{}, fmt.Errorf("%w: playlist url or name", shared.ErrMissingArgument)
	}

	lib, err := r.library(ctx)
	if err != nil {
		return nil, models.PlaylistEntry{}, err
	}
	entry, err := lib.Lookup(arg)
	if err != nil {
		return nil, models.PlaylistEntry{}, err
	}
	return lib, entry, nil
}

// PlaylistsToggle flips and persists the listened flag of one playlist.
func (r *Runner) PlaylistsToggle(ctx context.Context, cmd *cli.Command) error {
	lib, entry, err := r.lookupArg(ctx, cmd)
	if err != nil {
		return err
	}

	listened, err := lib.Toggle(ctx, entry.URL)
	if err != nil {
		return err
	}

	r.logger.Debug("toggled playlist", "url", entry.URL, "listened", listened)
	if listened {
		return r.writePlain("✓ Marked %q as listened\n", entry.Name)
	}
	return r.writePlain("✓ Marked %q as not listened\n", entry.Name)
}

// PlaylistsReverse reverses and persists the display order.
func (r *Runner) PlaylistsReverse(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.library(ctx)
	if err != nil {
		return err
	}
	entries, err := lib.Reverse(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return r.writePlain("✓ Order reversed (empty collection)\n")
	}
	return r.writePlain("✓ Order reversed, %q is now first\n", entries[0].Name)
}

// PlaylistsSort orders the collection by total duration and persists the result.
func (r *Runner) PlaylistsSort(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.library(ctx)
	if err != nil {
		return err
	}
	desc := cmd.Bool("desc")
	if _, err := lib.SortByDuration(ctx, desc); err != nil {
		return err
	}

	direction := "shortest first"
	if desc {
		direction = "longest first"
	}
	return r.writePlain("✓ Sorted by duration, %s\n", direction)
}

// PlaylistsExport writes the filtered collection to a file.
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}

	lib, err := r.library(ctx)
	if err != nil {
		return err
	}

	entries := lib.View(q)
	path, err := formatter.WriteExport(format, entries, lib.Listened(), cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("exported playlists", "format", format, "path", path, "count", len(entries))
	return r.writePlain("✓ Exported %d playlists to %s\n", len(entries), path)
}

// PlaylistsOpen opens a playlist link in the browser.
func (r *Runner) PlaylistsOpen(ctx context.Context, cmd *cli.Command) error {
	_, entry, err := r.lookupArg(ctx, cmd)
	if err != nil {
		return err
	}
	if err := r.open(entry.URL); err != nil {
		return fmt.Errorf("failed to open %s: %w", entry.URL, err)
	}
	return r.writePlain("Opened %s\n", entry.URL)
}

// PlaylistsReset forgets listened flags and the stored order. The token is kept.
func (r *Runner) PlaylistsReset(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.library(ctx)
	if err != nil {
		return err
	}
	if err := lib.Reset(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Listened flags and order cleared\n")
}
