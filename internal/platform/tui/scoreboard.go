package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-racer/internal/registry"
	"github.com/vovakirdan/tui-racer/internal/storage"
)

const maxResults = 100

// resultColumns are the results table columns; Date absorbs spare width.
var resultColumns = []table.Column{
	{Title: "Rank", Width: 5},
	{Title: "Place", Width: 6},
	{Title: "Time", Width: 9},
	{Title: "Coins", Width: 6},
	{Title: "Date", Width: 13},
}

// ResultsKeyMap defines the key bindings for the results screen.
type ResultsKeyMap struct {
	Scroll    key.Binding
	NextTrack key.Binding
	PrevTrack key.Binding
	Back      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ResultsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Scroll, k.PrevTrack, k.NextTrack, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ResultsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultResultsKeyMap returns default key bindings.
func DefaultResultsKeyMap() ResultsKeyMap {
	return ResultsKeyMap{
		// Help only; scrolling keys go straight to the table
		Scroll:    key.NewBinding(key.WithKeys("up", "down", "k", "j"), key.WithHelp("↑/↓", "scroll")),
		NextTrack: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/→", "next track")),
		PrevTrack: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("←", "prev track")),
		Back:      key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

var (
	resultsBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	activeTrackStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	trackStyle       = menuDimStyle.Padding(0, 1)
)

// ScoreboardModel shows stored race results, one track at a time.
type ScoreboardModel struct {
	tracks    []registry.GameInfo
	current   int
	store     *storage.Store
	results   []storage.RaceResult
	bestTime  string
	table     table.Model
	help      help.Model
	keys      ResultsKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a results screen. A nil store shows empty tables.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		tracks: registry.List(),
		store:  store,
		help:   help.New(),
		keys:   DefaultResultsKeyMap(),
	}
	m.resize(width, height)
	m.load()
	return m
}

// resize rebuilds the table for the given terminal size.
func (m *ScoreboardModel) resize(width, height int) {
	m.width, m.height = width, height
	m.help.Width = width

	columns := append([]table.Column(nil), resultColumns...)
	used := 0
	for _, c := range columns {
		used += c.Width
	}
	// Borders, padding and cell gaps take roughly 8 columns
	if spare := width - used - 8; spare > 0 {
		columns[len(columns)-1].Width += min(spare, 7)
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	rows := m.table.Rows()
	m.table = table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(height-9, 3)), // title, tabs, borders and help
		table.WithStyles(styles),
	)
}

// load reads results and the best winning time for the current track.
func (m *ScoreboardModel) load() {
	m.results = nil
	m.bestTime = ""
	if m.store != nil && len(m.tracks) > 0 {
		id := m.tracks[m.current].ID
		if results, err := m.store.TopResults(id, maxResults); err == nil {
			m.results = results
		}
		if best, ok, err := m.store.BestTime(id); err == nil && ok {
			m.bestTime = fmt.Sprintf("%.2fs", best)
		}
	}

	rows := make([]table.Row, len(m.results))
	for i, r := range m.results {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			ordinal(r.Placement),
			fmt.Sprintf("%.2fs", r.Seconds),
			fmt.Sprintf("%d", r.Pickups),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// cycle moves to the next (+1) or previous (-1) track.
func (m *ScoreboardModel) cycle(step int) {
	if n := len(m.tracks); n > 0 {
		m.current = (m.current + step + n) % n
		m.load()
	}
}

// ordinal formats a placement as 1st, 2nd, 3rd, 4th...
func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextTrack):
			m.cycle(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevTrack):
			m.cycle(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := "RACE RESULTS"
	if len(m.tracks) > 0 {
		title += " - " + m.tracks[m.current].Title
	}
	b.WriteString(centerText(menuTitleStyle.Render(title), m.width))
	b.WriteString("\n")
	if m.bestTime != "" {
		b.WriteString(centerText(menuDimStyle.Render("best winning time "+m.bestTime), m.width))
	}
	b.WriteString("\n\n")

	b.WriteString(centerText(m.trackTabs(), m.width))
	b.WriteString("\n\n")

	body := m.table.View()
	if len(m.results) == 0 {
		body = menuDimStyle.Italic(true).Padding(1, 4).
			Render("No races finished yet.\nCross the line to post a time!")
	}
	for _, line := range strings.Split(resultsBoxStyle.Render(body), "\n") {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// trackTabs renders the track selector, falling back to "< title >" when
// the tabs do not fit.
func (m ScoreboardModel) trackTabs() string {
	tabs := make([]string, len(m.tracks))
	for i, t := range m.tracks {
		if i == m.current {
			tabs[i] = activeTrackStyle.Render(t.Title)
		} else {
			tabs[i] = trackStyle.Render(t.Title)
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if lipgloss.Width(line) > m.width-4 && len(m.tracks) > 0 {
		return fmt.Sprintf("< %s >", m.tracks[m.current].Title)
	}
	return line
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the results screen on its own.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
