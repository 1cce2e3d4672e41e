// Package tui implements the interactive session dashboard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/duet/internal/core"
	duetErrors "github.com/tessro/duet/internal/errors"
	"github.com/tessro/duet/internal/playersync"
	"github.com/tessro/duet/internal/session"
	"github.com/tessro/duet/internal/tui/components"
	"github.com/tessro/duet/internal/tui/styles"
)

const searchDebounce = 300 * time.Millisecond

// Options configures the dashboard.
type Options struct {
	Orchestrator *session.Orchestrator
	Search       core.CatalogSearch
	Advances     <-chan playersync.AdvanceEvent
	Refresh      time.Duration
}

// Model is the main TUI model
type Model struct {
	opts   Options
	ctx    context.Context
	width  int
	height int

	// Components
	nowPlaying  *components.NowPlaying
	queueView   *components.Queue
	historyView *components.History
	thinking    spinner.Model

	// Search state
	showSearch    bool
	searchInput   textinput.Model
	searchResults []core.Track
	searchCursor  int
	searching     bool
	lastQuery     string

	// Error handling
	lastError   error
	errorExpiry time.Time

	showHelp bool
	quitting bool
}

// NewModel creates a new TUI model
func NewModel(ctx context.Context, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Search for your pick..."
	ti.CharLimit = 100
	ti.Width = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.AIColor)

	if opts.Refresh <= 0 {
		opts.Refresh = time.Second
	}

	return Model{
		opts:        opts,
		ctx:         ctx,
		nowPlaying:  components.NewNowPlaying(),
		queueView:   components.NewQueue(),
		historyView: components.NewHistory(),
		thinking:    sp,
		searchInput: ti,
	}
}

// Messages
type tickMsg time.Time
type advanceMsg playersync.AdvanceEvent
type advancesClosedMsg struct{}
type aiDoneMsg struct{ err error }
type userPickedMsg struct{ err error }
type errMsg error

type searchDebounceMsg struct{ query string }
type searchResultsMsg struct {
	results []core.Track
	err     error
}

// Commands
func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.Refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) waitForAdvance() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.opts.Advances
		if !ok {
			return advancesClosedMsg{}
		}
		return advanceMsg(ev)
	}
}

func (m Model) requestAITurn() tea.Cmd {
	return func() tea.Msg {
		err := m.opts.Orchestrator.RequestAITurnIfDue(m.ctx)
		if errors.Is(err, duetErrors.ErrSelectionPending) {
			err = nil
		}
		return aiDoneMsg{err: err}
	}
}

func (m Model) pickTrack(track core.Track) tea.Cmd {
	return func() tea.Msg {
		return userPickedMsg{err: m.opts.Orchestrator.RequestUserTurn(m.ctx, track)}
	}
}

func (m Model) doSearch(query string) tea.Cmd {
	return func() tea.Msg {
		if query == "" {
			return searchResultsMsg{results: nil}
		}

		ctx, cancel := context.WithTimeout(m.ctx, 5*time.Second)
		defer cancel()

		results, err := m.opts.Search.SearchTracks(ctx, query, 10)
		return searchResultsMsg{results: results, err: err}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.tick(),
		m.thinking.Tick,
		m.waitForAdvance(),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if m.lastError != nil && time.Now().After(m.errorExpiry) {
			m.lastError = nil
		}
		return m, m.tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.thinking, cmd = m.thinking.Update(msg)
		return m, cmd

	case advanceMsg:
		m.opts.Orchestrator.HandleAdvance(msg.Track.ID)
		// A committed advance may hand the turn to the AI.
		return m, tea.Batch(m.waitForAdvance(), m.requestAITurn())

	case advancesClosedMsg:
		return m, nil

	case aiDoneMsg:
		if msg.err != nil {
			return m.showError(msg.err), nil
		}
		return m, nil

	case userPickedMsg:
		if msg.err != nil {
			return m.showError(msg.err), nil
		}
		// Your pick is in; the AI may now owe its next one.
		return m, m.requestAITurn()

	case errMsg:
		return m.showError(msg), nil

	case searchDebounceMsg:
		if msg.query == m.searchInput.Value() && msg.query != m.lastQuery {
			m.lastQuery = msg.query
			m.searching = true
			return m, m.doSearch(msg.query)
		}

	case searchResultsMsg:
		m.searching = false
		m.searchResults = msg.results
		m.searchCursor = 0
		if msg.err != nil {
			return m.showError(msg.err), nil
		}
		return m, nil
	}

	if m.showSearch {
		var inputCmd tea.Cmd
		m.searchInput, inputCmd = m.searchInput.Update(msg)
		return m, inputCmd
	}

	return m, nil
}

func (m Model) showError(err error) Model {
	m.lastError = err
	m.errorExpiry = time.Now().Add(5 * time.Second)
	return m
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showSearch {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	case "/", "p":
		m.showSearch = true
		m.searchInput.SetValue("")
		m.searchResults = nil
		m.lastQuery = ""
		return m, m.searchInput.Focus()
	case "r":
		m.opts.Orchestrator.Reset()
		return m, nil
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.showSearch = false
		m.searchInput.Blur()
		return m, nil
	case "up":
		if m.searchCursor > 0 {
			m.searchCursor--
		}
		return m, nil
	case "down":
		if m.searchCursor < len(m.searchResults)-1 {
			m.searchCursor++
		}
		return m, nil
	case "enter":
		if len(m.searchResults) == 0 {
			return m, nil
		}
		track := m.searchResults[m.searchCursor]
		m.showSearch = false
		m.searchInput.Blur()
		return m, m.pickTrack(track)
	}

	var inputCmd tea.Cmd
	m.searchInput, inputCmd = m.searchInput.Update(msg)

	query := m.searchInput.Value()
	debounce := tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{query: query}
	})
	return m, tea.Batch(inputCmd, debounce)
}

// View renders the dashboard
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	state := m.opts.Orchestrator.State()

	thinking := ""
	if state.IsAIThinking() {
		thinking = m.thinking.View() + " AI is thinking..."
	}

	panelWidth := m.width - 2
	topHeight := 9
	bottomHeight := (m.height - topHeight - 6) / 2
	if bottomHeight < 5 {
		bottomHeight = 5
	}

	top := m.nowPlaying.Render(state.CurrentlyPlaying(), state.CurrentTurn(), thinking, panelWidth, topHeight, false)
	queue := m.queueView.Render(state.Queue(), panelWidth, bottomHeight, false)
	history := m.historyView.Render(state.History(), panelWidth, bottomHeight, false)

	sections := []string{top, queue, history}

	if m.showSearch {
		sections = append(sections, m.renderSearch(panelWidth))
	}
	if m.lastError != nil {
		sections = append(sections, styles.ErrorText.Render(duetErrors.Format(m.lastError)))
	}
	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderSearch(width int) string {
	lines := []string{styles.PanelTitle("Your Pick", true), "", m.searchInput.View()}

	if m.searching {
		lines = append(lines, styles.Dim.Render("Searching..."))
	}
	for i, t := range m.searchResults {
		cursor := "  "
		style := styles.Subtitle
		if i == m.searchCursor {
			cursor = "> "
			style = styles.Title
		}
		lines = append(lines, cursor+style.Render(fmt.Sprintf("%s — %s", t.Title, t.Artist)))
	}

	return styles.FocusedBorder.Padding(0, 1).Width(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderFooter() string {
	if m.showHelp {
		return styles.Dim.Render("  / or p: pick a track   r: reset session   esc: close search   q: quit   ?: hide help")
	}
	return styles.Dim.Render("  / pick   r reset   q quit   ? help")
}

// Run starts the dashboard and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(NewModel(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
