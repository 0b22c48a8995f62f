package racer

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-racer/internal/config"
	"github.com/vovakirdan/tui-racer/internal/core"
	"github.com/vovakirdan/tui-racer/internal/registry"
)

// Registered track IDs.
const (
	IDBoulevard = "racer"
	IDOval      = "racer_oval"
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	switch preset {
	case "easy":
		difficultyPreset = config.DifficultyEasy
	case "normal":
		difficultyPreset = config.DifficultyNormal
	case "hard":
		difficultyPreset = config.DifficultyHard
	case "fixed":
		difficultyPreset = config.DifficultyFixed
	default:
		difficultyPreset = ""
	}
}

// LoadConfig resolves the race config the way Reset does, forcing the
// track kind. Failures fall back to the built-in defaults.
func LoadConfig(trackKind string) config.RacerConfig {
	cfg, err := config.LoadRacer(configPath)
	if err != nil {
		cfg = config.DefaultRacerConfig()
	}
	if difficultyPreset != "" {
		config.ApplyRacerPreset(&cfg, difficultyPreset)
	}
	cfg.Track.Kind = trackKind
	return cfg
}

// TrackKind maps a registered race ID to its track kind.
func TrackKind(id string) (string, bool) {
	switch id {
	case IDBoulevard:
		return config.TrackStraight, true
	case IDOval:
		return config.TrackLoop, true
	}
	return "", false
}

// Game adapts the race engine to the game registry.
type Game struct {
	id    string
	title string
	kind  string

	runtime core.RuntimeConfig
	cfg     config.RacerConfig
	engine  *Engine
	pending []core.Event

	// Keyboard steering: terminals report presses only, so a steer key
	// holds the turn for a short window.
	steerDir  float64
	steerHold float64
}

// NewBoulevard creates the straight point-to-point race.
func NewBoulevard() *Game {
	return &Game{id: IDBoulevard, title: "Boulevard Sprint", kind: config.TrackStraight}
}

// NewOval creates the closed-loop race.
func NewOval() *Game {
	return &Game{id: IDOval, title: "Oval Circuit", kind: config.TrackLoop}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return g.title
}

// Reset loads config and starts a fresh race countdown.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.cfg = LoadConfig(g.kind)

	seed := runtime.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g.pending = nil
	g.steerDir = 0
	g.steerHold = 0
	g.engine = NewEngine(Options{
		Config: g.cfg,
		Rand:   rand.New(rand.NewSource(seed)),
		Hooks: Hooks{
			OnPickup: func(count int) {
				g.pending = append(g.pending, core.Event{Kind: core.EventPickup, Count: count})
			},
			OnFinish: func(placement int, seconds float64, pickups int) {
				g.pending = append(g.pending, core.Event{
					Kind:      core.EventFinish,
					Placement: placement,
					Seconds:   seconds,
					Pickups:   pickups,
					Laps:      g.cfg.Race.LapsToWin,
				})
			},
		},
	})
	g.engine.Start()
}

// Step applies one frame of input and advances the race by dt seconds.
func (g *Game) Step(in core.InputFrame, dt float64) core.StepResult {
	if g.engine == nil {
		g.Reset(g.runtime)
	}
	e := g.engine

	if in.Has(core.ActionRestart) {
		e.Restart()
		g.steerDir = 0
		g.steerHold = 0
		e.SetTurn(0)
	}
	if in.Has(core.ActionPause) {
		e.TogglePause()
	}

	g.steer(in, dt)

	if in.Has(core.ActionToggleLane) {
		e.ToggleLane()
	}
	if in.Has(core.ActionBoost) {
		e.TryBoost()
	}

	for _, p := range in.Pointer {
		switch p.Kind {
		case core.PointerDown:
			e.PointerDown(p.X)
		case core.PointerMove:
			e.PointerMove(p.X)
		case core.PointerUp:
			e.PointerUp()
		}
	}

	e.Step(dt)

	events := g.pending
	g.pending = nil
	return core.StepResult{State: g.State(), Events: events}
}

// steer turns key presses into a held turn intent that releases on its own.
func (g *Game) steer(in core.InputFrame, dt float64) {
	left, right := in.Has(core.ActionSteerLeft), in.Has(core.ActionSteerRight)
	switch {
	case left && !right:
		g.steerDir, g.steerHold = -1, g.cfg.Input.SteerHold
	case right && !left:
		g.steerDir, g.steerHold = 1, g.cfg.Input.SteerHold
	case g.steerHold > 0:
		g.steerHold -= dt
		if g.steerHold <= 0 {
			g.steerHold = 0
			g.steerDir = 0
			if !g.engine.Dragging() {
				g.engine.SetTurn(0)
			}
		}
		return
	default:
		return
	}
	if !g.engine.Dragging() {
		g.engine.SetTurn(g.steerDir)
	}
}

// Snapshot returns a copy of the race state.
func (g *Game) Snapshot() Snapshot {
	if g.engine == nil {
		return Snapshot{}
	}
	return g.engine.Snapshot()
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.engine == nil {
		return core.GameState{}
	}
	snap := g.engine.state
	return core.GameState{
		Score:    snap.player.Pickups,
		GameOver: snap.phase == PhaseFinished,
		Paused:   snap.phase == PhasePaused,
	}
}

// Register both tracks with the registry
func init() {
	registry.Register(IDBoulevard, func() registry.Game {
		return NewBoulevard()
	})
	registry.Register(IDOval, func() registry.Game {
		return NewOval()
	})
}
