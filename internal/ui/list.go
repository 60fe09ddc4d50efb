package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/sortify/internal/models"
)

var _ list.Item = playlistItem{}

// playlistItem wraps [models.PlaylistEntry] to implement [list.Item].
type playlistItem struct {
	entry    models.PlaylistEntry
	listened bool
}

func (i playlistItem) FilterValue() string { return i.entry.Name }

func (i playlistItem) Title() string {
	if i.listened {
		return "✓ " + i.entry.Name
	}
	return "  " + i.entry.Name
}

func (i playlistItem) Description() string { return i.entry.Duration.String() }

func toItems(entries []models.PlaylistEntry, listened models.ListenedMap) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = playlistItem{entry: e, listened: listened.Listened(e.URL)}
	}
	return items
}
