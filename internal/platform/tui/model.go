package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-racer/internal/core"
	"github.com/vovakirdan/tui-racer/internal/registry"
	"github.com/vovakirdan/tui-racer/internal/storage"
)

// pointerUnitsPerCell converts mouse columns into drag units; with the
// default sensitivity a 30-column drag sweeps one full lane.
const pointerUnitsPerCell = 8.0

// Model is the Bubble Tea model for running a race.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	help       help.Model
	inputFrame core.InputFrame
	gameState  core.GameState
	lastTick   time.Time
	dragging   bool
	quitting   bool
	backToMenu bool
	allowBack  bool // Back returns to a menu instead of being ignored
	exitOnBack bool // Back also ends the program (local menu loop)
}

// NewModel creates a new Bubble Tea model for the given game.
// store and logger may be nil.
func NewModel(game registry.Game, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, playfieldHeight(cfg.ScreenH)),
		store:      store,
		logger:     logger,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		help:       help.New(),
		inputFrame: core.NewInputFrame(),
	}
}

// WithBackToMenu lets the Back key leave a paused or finished race.
func (m Model) WithBackToMenu() Model {
	m.allowBack = true
	return m
}

// playfieldHeight leaves the last row for the help bar.
func playfieldHeight(h int) int {
	return max(h-1, 1)
}

// Init initializes the model and starts the race.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		// The race keeps running; the renderer adapts to any size
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, playfieldHeight(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMapper.Keys.Screenshot):
		if path, err := m.saveScreenshot(); err != nil {
			m.logger.Warn("screenshot failed", "error", err)
		} else {
			m.logger.Info("screenshot saved", "path", path)
		}
		return m, nil
	case key.Matches(msg, m.keyMapper.Keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.inputFrame.Has(core.ActionBack) && m.allowBack && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		if m.exitOnBack {
			return m, tea.Quit
		}
	}

	return m, nil
}

// handleMouse turns left-button drags into pointer events.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	x := float64(msg.X) * pointerUnitsPerCell

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.dragging = true
			m.inputFrame.AddPointer(core.PointerDown, x)
		}
	case tea.MouseActionMotion:
		if m.dragging {
			m.inputFrame.AddPointer(core.PointerMove, x)
		}
	case tea.MouseActionRelease:
		if m.dragging {
			m.dragging = false
			m.inputFrame.AddPointer(core.PointerUp, x)
		}
	}

	return m, nil
}

// handleTick advances the race by the wall-clock time since the last tick.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	dt := 1.0 / float64(max(m.config.TickRate, 1))
	if !m.lastTick.IsZero() {
		dt = now.Sub(m.lastTick).Seconds()
	}
	m.lastTick = now

	result := m.game.Step(m.inputFrame, dt)
	m.gameState = result.State
	m.record(result.Events)

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// record persists step events. Storage failures are logged and never
// interrupt the race.
func (m Model) record(events []core.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case core.EventPickup:
			m.logger.Debug("pickup", "game", m.game.ID(), "count", ev.Count)
			if m.store == nil {
				continue
			}
			if _, err := m.store.AddCoins(ev.Count); err != nil {
				m.logger.Warn("could not credit coins", "error", err)
			}

		case core.EventFinish:
			m.logger.Info("race finished",
				"game", m.game.ID(),
				"placement", ev.Placement,
				"seconds", fmt.Sprintf("%.2f", ev.Seconds),
				"pickups", ev.Pickups,
			)
			if m.store == nil {
				continue
			}
			_, err := m.store.SaveResult(storage.RaceResult{
				GameID:    m.game.ID(),
				Placement: ev.Placement,
				Seconds:   ev.Seconds,
				Pickups:   ev.Pickups,
				Laps:      ev.Laps,
			})
			if err != nil {
				m.logger.Warn("could not save result", "error", err)
			}
		}
	}
}

// saveScreenshot writes the current screen as plain text under ~/.arcade/screenshots.
func (m *Model) saveScreenshot() (string, error) {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("tui: cannot resolve home directory: %w", err)
	}
	dir := filepath.Join(home, ".arcade", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("tui: cannot create %s: %w", dir, err)
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return "", fmt.Errorf("tui: cannot write screenshot: %w", err)
	}
	return path, nil
}

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keyMapper.Keys))
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts a race in its own program. With withMenu set, Back on a paused
// or finished race ends the program and reports backToMenu.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, withMenu bool) (backToMenu bool, err error) {
	model := NewModel(game, store, nil, cfg)
	if withMenu {
		model = model.WithBackToMenu()
		model.exitOnBack = true
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(Model)
	if !ok {
		return false, nil
	}
	return m.BackToMenu(), nil
}
