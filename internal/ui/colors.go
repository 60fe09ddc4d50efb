package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/sortify/internal/models"
)

var (
	lightPalette = NewPalette("#1DB954", "#0B7A34", "#D7263D", "#C46A00", "#6B6B6B", "#191414", "#FFFFFF")
	darkPalette  = NewPalette("#1ED760", "#7CF0A4", "#FF5C6C", "#FFB347", "#9A9A9A", "#E6E6E6", "#121212")
)

// paletteFor returns the palette for theme.
func paletteFor(theme models.Theme) *Palette {
	if theme == models.ThemeDark {
		return darkPalette
	}
	return lightPalette
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title    lipgloss.Style
	ok       lipgloss.Style
	err      lipgloss.Style
	warn     lipgloss.Style
	help     lipgloss.Style
	text     lipgloss.Style
	listened lipgloss.Style
	frame    lipgloss.Style

	accent string
	fg     string
	muted  string
}

// NewPalette builds a palette from accent, success, error, warning, muted, text and
// background colors.
func NewPalette(accent, ok, e, w, muted, fg, bg string) *Palette {
	return &Palette{
		title:    NewBold(bg).Background(lipgloss.Color(accent)).Padding(0, 1),
		ok:       NewBold(ok),
		err:      NewBold(e),
		warn:     NewStyle(w),
		help:     NewEm(muted),
		text:     NewStyle(fg),
		listened: NewStyle(muted).Strikethrough(true),
		frame:    lipgloss.NewStyle().Background(lipgloss.Color(bg)).Foreground(lipgloss.Color(fg)),
		accent:   accent,
		fg:       fg,
		muted:    muted,
	}
}

// delegate returns a list delegate colored with p.
func (p *Palette) delegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.Styles.NormalTitle = d.Styles.NormalTitle.Foreground(lipgloss.Color(p.fg))
	d.Styles.NormalDesc = d.Styles.NormalDesc.Foreground(lipgloss.Color(p.muted))
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.
		Foreground(lipgloss.Color(p.accent)).
		BorderLeftForeground(lipgloss.Color(p.accent))
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.
		Foreground(lipgloss.Color(p.muted)).
		BorderLeftForeground(lipgloss.Color(p.accent))
	return d
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
