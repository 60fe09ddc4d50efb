package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/sortify/internal/library"
	"github.com/desertthunder/sortify/internal/models"
	"github.com/desertthunder/sortify/internal/pager"
	"github.com/desertthunder/sortify/internal/shared"
)

// rowUnits converts list rows into the pager's distance units, so a threshold of 500
// triggers a load five rows from the end.
const rowUnits = 100

// chromeHeight is the number of lines around the list: title, status bar, blank line and help.
const chromeHeight = 6

// Opts contains configuration options for creating a [Model].
type Opts struct {
	Library      *library.Library
	Pager        *pager.Pager
	Logger       *log.Logger
	ReverseDelay time.Duration
	// Open opens a playlist URL. Defaults to [shared.OpenBrowser].
	Open func(string) error
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	lib    *library.Library
	pager  *pager.Pager
	logger *log.Logger
	open   func(string) error

	list    list.Model
	search  textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap
	palette *Palette

	query        library.Query
	matches      []models.PlaylistEntry
	loadGen      int
	pages        chan int
	done         chan struct{}
	reverseDelay time.Duration
	reversing    bool
	descending   bool

	width  int
	height int
	status string
	err    error
}

// NewModel creates a new TUI model over an initialized library.
func NewModel(ctx context.Context, opts Opts) *Model {
	if opts.Pager == nil {
		opts.Pager = pager.New(pager.Opts{Delay: pager.DefaultDelay})
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	if opts.Open == nil {
		opts.Open = shared.OpenBrowser
	}
	if opts.ReverseDelay <= 0 {
		opts.ReverseDelay = 100 * time.Millisecond
	}

	search := textinput.New()
	search.Placeholder = "search playlists"
	search.Prompt = "/ "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		ctx:          ctx,
		lib:          opts.Library,
		pager:        opts.Pager,
		logger:       opts.Logger,
		open:         opts.Open,
		search:       search,
		spinner:      sp,
		help:         help.New(),
		keys:         newKeyMap(),
		query:        library.Query{Mode: models.FilterAll},
		reverseDelay: opts.ReverseDelay,
		pages:        make(chan int, 1),
		done:         make(chan struct{}),
	}

	m.palette = paletteFor(m.lib.Theme())
	m.list = list.New(nil, m.palette.delegate(), 0, 0)
	m.list.Title = "Playlists"
	m.list.SetFilteringEnabled(false)
	m.list.SetShowHelp(false)
	m.list.DisableQuitKeybindings()
	m.applyPalette()
	m.refresh()
	return m
}

// Init starts the spinner.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, max(msg.Height-chromeHeight, 1))
		return m, nil

	case tea.KeyMsg:
		if m.search.Focused() {
			return m.handleSearchKeys(msg)
		}
		return m.handleListKeys(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPageLoaded:
		if gen, _ := msg.data.(int); gen != m.loadGen {
			return m, nil
		}
		m.pager.Complete()
		m.refresh()
		m.logger.Debug("page loaded", "visible", m.pager.Visible(), "matches", len(m.matches))
		return m, nil

	case MsgReverseStep:
		step, _ := msg.data.(int)
		if step == 1 {
			if _, err := m.lib.Reverse(m.ctx); err != nil {
				m.fail(err)
				m.reversing = false
				return m, nil
			}
			m.refresh()
			return m, m.tick(reverseStepMsg(2))
		}
		m.reversing = false
		m.status = "reversed"
		return m, nil

	case MsgOpened:
		data, _ := msg.data.(struct {
			url string
			err error
		})
		if data.err != nil {
			m.fail(data.err)
		} else {
			m.status = "opened " + data.url
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "esc":
		m.search.Blur()
		m.search.SetValue("")
		m.setTerm("")
		return m, nil
	case "enter":
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.setTerm(m.search.Value())
	return m, cmd
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil

	switch {
	case key.Matches(msg, m.keys.quit):
		return m.quit()

	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.toggle):
		m.toggleSelected()
		return m, nil

	case key.Matches(msg, m.keys.filter):
		m.query.Mode = m.query.Mode.Next()
		m.status = "filter: " + string(m.query.Mode)
		m.refresh()
		return m, m.maybeLoad()

	case key.Matches(msg, m.keys.search):
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.back):
		if m.query.Term != "" {
			m.search.SetValue("")
			m.setTerm("")
		}
		return m, nil

	case key.Matches(msg, m.keys.fuzzy):
		if m.query.Search == models.SearchFuzzy {
			m.query.Search = models.SearchSubstring
		} else {
			m.query.Search = models.SearchFuzzy
		}
		m.status = "search: " + m.query.Search.String()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.reverse):
		if m.reversing {
			return m, nil
		}
		m.reversing = true
		return m, m.tick(reverseStepMsg(1))

	case key.Matches(msg, m.keys.sort):
		m.descending = !m.descending
		if _, err := m.lib.SortByDuration(m.ctx, m.descending); err != nil {
			m.fail(err)
			return m, nil
		}
		m.status = "sorted shortest first"
		if m.descending {
			m.status = "sorted longest first"
		}
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.theme):
		m.palette = paletteFor(m.lib.ToggleTheme())
		m.applyPalette()
		return m, nil

	case key.Matches(msg, m.keys.open):
		item, ok := m.list.SelectedItem().(playlistItem)
		if !ok {
			return m, nil
		}
		url := item.entry.URL
		return m, func() tea.Msg { return openedMsg(url, m.open(url)) }
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, tea.Batch(cmd, m.maybeLoad())
}

// View renders the UI.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.list.View())
	b.WriteString("\n")

	if m.search.Focused() || m.query.Term != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}

	switch {
	case m.err != nil:
		b.WriteString(m.palette.err.Render("Error: " + m.err.Error()))
	case m.pager.Loading():
		b.WriteString(m.palette.warn.Render(m.spinner.View() + " loading more playlists"))
	case m.reversing:
		b.WriteString(m.palette.warn.Render("reversing…"))
	case m.status != "":
		b.WriteString(m.palette.ok.Render(m.status))
	}
	b.WriteString("\n")

	b.WriteString(m.palette.help.Render(m.help.View(m.keys)))
	return b.String()
}

// Err returns the last error shown to the user.
func (m *Model) Err() error { return m.err }

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.pager.Stop()
	m.loadGen++
	select {
	case <-m.done:
	default:
		close(m.done)
	}
	return m, tea.Quit
}

func (m *Model) setTerm(term string) {
	m.query.Term = term
	m.refresh()
}

func (m *Model) toggleSelected() {
	item, ok := m.list.SelectedItem().(playlistItem)
	if !ok {
		return
	}

	listened, err := m.lib.Toggle(m.ctx, item.entry.URL)
	if err != nil {
		m.fail(err)
		return
	}
	if listened {
		m.status = "marked " + item.entry.Name + " listened"
	} else {
		m.status = "marked " + item.entry.Name + " not listened"
	}
	m.refresh()
}

// refresh recomputes the matches and the rendered page.
func (m *Model) refresh() {
	m.matches = m.lib.View(m.query)
	items := toItems(pager.Slice(m.pager, m.matches), m.lib.Listened())
	m.list.SetItems(items)

	if idx := m.list.Index(); idx >= len(items) && len(items) > 0 {
		m.list.Select(len(items) - 1)
	}
	m.list.Title = m.title()
}

func (m *Model) title() string {
	listened := 0
	flags := m.lib.Listened()
	for _, e := range m.matches {
		if flags.Listened(e.URL) {
			listened++
		}
	}
	title := fmt.Sprintf("Playlists · %s · %d/%d listened", m.query.Mode, listened, len(m.matches))
	if m.query.Search == models.SearchFuzzy {
		title += " · fuzzy"
	}
	return title
}

// maybeLoad schedules a page load when the cursor is near the end of the rendered rows.
func (m *Model) maybeLoad() tea.Cmd {
	rendered := len(m.list.Items())
	distance := (rendered - 1 - m.list.Index()) * rowUnits

	gen := m.loadGen + 1
	pages := m.pages
	scheduled := m.pager.Schedule(distance, len(m.matches), func() {
		select {
		case pages <- gen:
		default:
		}
	})
	if !scheduled {
		return nil
	}

	m.loadGen = gen
	return tea.Batch(m.waitForPage(), m.spinner.Tick)
}

// waitForPage delivers the next scheduled page, or nothing once the model quits.
func (m *Model) waitForPage() tea.Cmd {
	pages, done := m.pages, m.done
	return func() tea.Msg {
		select {
		case gen := <-pages:
			return pageLoadedMsg(gen)
		case <-done:
			return nil
		}
	}
}

func (m *Model) tick(msg Msg) tea.Cmd {
	return tea.Tick(m.reverseDelay, func(time.Time) tea.Msg { return msg })
}

func (m *Model) applyPalette() {
	m.list.SetDelegate(m.palette.delegate())
	m.list.Styles.Title = m.palette.title
	m.search.PromptStyle = m.palette.ok
	m.search.TextStyle = m.palette.text
	m.spinner.Style = m.palette.ok
}

func (m *Model) fail(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	m.logger.Error("action failed", "error", err)
	m.err = err
}
