package racer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-racer/internal/config"
	"github.com/vovakirdan/tui-racer/internal/core"
	"github.com/vovakirdan/tui-racer/internal/registry"
)

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     12345,
	}
}

// useConfigFile points LoadConfig at a temp file so user and working
// directory configs never leak into a test. Empty yaml means the defaults.
func useConfigFile(t *testing.T, yaml string) {
	t.Helper()
	if yaml == "" {
		yaml = string(config.GetDefaultYAML())
	}
	path := filepath.Join(t.TempDir(), "racer.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	SetConfigPath(path)
	SetDifficultyPreset("")
	t.Cleanup(func() { SetConfigPath("") })
}

func TestGameIDs(t *testing.T) {
	useConfigFile(t, "")
	tests := []struct {
		id, title string
		loop      bool
	}{
		{IDBoulevard, "Boulevard Sprint", false},
		{IDOval, "Oval Circuit", true},
	}
	for _, tt := range tests {
		g, err := registry.Create(tt.id)
		if err != nil {
			t.Fatalf("registry.Create(%q): %v", tt.id, err)
		}
		if g.ID() != tt.id || g.Title() != tt.title {
			t.Errorf("got %q / %q", g.ID(), g.Title())
		}

		g.Reset(testRuntime())
		_, isLoop := g.(*Game).Snapshot().Track.Path.(*ClosedLoopPath)
		if isLoop != tt.loop {
			t.Errorf("%s: loop track = %v, want %v", tt.id, isLoop, tt.loop)
		}
	}
}

func TestGameResetStartsCountdown(t *testing.T) {
	useConfigFile(t, "")
	g := NewBoulevard()
	g.Reset(testRuntime())

	snap := g.Snapshot()
	if snap.Phase != PhaseCountdown {
		t.Errorf("expected countdown, got %s", snap.Phase)
	}
	state := g.State()
	if state.Score != 0 || state.GameOver || state.Paused {
		t.Errorf("unexpected initial state: %+v", state)
	}
}

func TestGameSteerHoldReleases(t *testing.T) {
	useConfigFile(t, "")
	g := NewOval()
	g.Reset(testRuntime())
	racing(g.engine)

	in := core.NewInputFrame()
	in.Set(core.ActionSteerRight)
	g.Step(in, testDT)
	if g.engine.intent.turn != 1 {
		t.Fatalf("expected turn 1 after steer key, got %f", g.engine.intent.turn)
	}

	empty := core.NewInputFrame()
	hold := g.cfg.Input.SteerHold
	steps := int(hold/testDT) + 2
	for i := 0; i < steps; i++ {
		g.Step(empty, testDT)
	}
	if g.engine.intent.turn != 0 {
		t.Errorf("steering should release after %fs, turn=%f", hold, g.engine.intent.turn)
	}
	if g.Snapshot().Player.Lane <= 0 {
		t.Error("player should have drifted right")
	}
}

func TestGamePause(t *testing.T) {
	useConfigFile(t, "")
	g := NewBoulevard()
	g.Reset(testRuntime())
	racing(g.engine)

	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)

	result := g.Step(pause, testDT)
	if !result.State.Paused {
		t.Fatal("expected paused state")
	}

	before := g.Snapshot().Player
	for i := 0; i < 10; i++ {
		g.Step(core.NewInputFrame(), testDT)
	}
	if g.Snapshot().Player != before {
		t.Error("player moved while paused")
	}

	result = g.Step(pause, testDT)
	if result.State.Paused {
		t.Error("expected unpause")
	}
}

func TestGameEmitsEvents(t *testing.T) {
	useConfigFile(t, "")
	g := NewBoulevard()
	g.Reset(testRuntime())
	racing(g.engine)
	g.engine.state.lapsToWin = 1
	g.engine.state.track.Pickups = []Pickup{{Progress: 0.999, Lane: 0}}
	g.engine.state.player.Progress = 0.999

	result := g.Step(core.NewInputFrame(), testDT)

	var pickups, finishes int
	for _, ev := range result.Events {
		switch ev.Kind {
		case core.EventPickup:
			pickups += ev.Count
		case core.EventFinish:
			finishes++
			if ev.Placement < 1 || ev.Placement > len(g.engine.state.ai)+1 {
				t.Errorf("placement %d out of range", ev.Placement)
			}
			if ev.Pickups != 1 {
				t.Errorf("expected 1 pickup in the finish event, got %d", ev.Pickups)
			}
		}
	}
	if pickups != 1 || finishes != 1 {
		t.Errorf("expected one pickup and one finish, got %d and %d", pickups, finishes)
	}
	if !result.State.GameOver || result.State.Score != 1 {
		t.Errorf("unexpected state: %+v", result.State)
	}

	// Events are delivered once
	if again := g.Step(core.NewInputFrame(), testDT); len(again.Events) != 0 {
		t.Errorf("events repeated: %+v", again.Events)
	}
}

func TestGameRestartAction(t *testing.T) {
	useConfigFile(t, "")
	g := NewBoulevard()
	g.Reset(testRuntime())
	g.engine.state.phase = PhaseRacing
	g.engine.state.player.Progress = 0.7
	g.engine.state.player.Laps = 2
	g.engine.state.player.Pickups = 4
	for i := range g.engine.state.track.Pickups {
		g.engine.state.track.Pickups[i].Collected = true
	}

	in := core.NewInputFrame()
	in.Set(core.ActionRestart)
	result := g.Step(in, testDT)

	if result.State.Score != 0 {
		t.Errorf("score should reset, got %d", result.State.Score)
	}

	// The restart frame still integrates one countdown step
	snap := g.Snapshot()
	if snap.Phase != PhaseCountdown {
		t.Errorf("phase = %s, want countdown", snap.Phase)
	}
	if limit := g.cfg.Player.BaseSpeed*testDT + 1e-9; snap.Player.Progress > limit {
		t.Errorf("progress = %f, want at most one step (%f)", snap.Player.Progress, limit)
	}
	if snap.Player.Laps != 0 || snap.Player.Pickups != 0 {
		t.Errorf("laps = %d, pickups = %d, want 0 and 0", snap.Player.Laps, snap.Player.Pickups)
	}
	if len(snap.Track.Pickups) == 0 {
		t.Fatal("restart should rebuild the pickups")
	}
	for i, pk := range snap.Track.Pickups {
		if pk.Collected {
			t.Errorf("pickup %d still collected after restart", i)
		}
	}
}

func TestGamePointerSteering(t *testing.T) {
	useConfigFile(t, "")
	g := NewOval()
	g.Reset(testRuntime())
	racing(g.engine)

	in := core.NewInputFrame()
	in.AddPointer(core.PointerDown, 0)
	in.AddPointer(core.PointerMove, -240)
	g.Step(in, testDT)
	if g.engine.intent.turn != -1 {
		t.Errorf("expected full left turn, got %f", g.engine.intent.turn)
	}

	up := core.NewInputFrame()
	up.AddPointer(core.PointerUp, -240)
	g.Step(up, testDT)
	if g.engine.intent.turn != 0 {
		t.Errorf("pointer up should release steering, got %f", g.engine.intent.turn)
	}
}

func TestGameRender(t *testing.T) {
	useConfigFile(t, "")
	for _, g := range []*Game{NewBoulevard(), NewOval()} {
		g.Reset(testRuntime())
		screen := core.NewScreen(80, 24)

		g.Render(screen)
		out := screen.String()
		if !strings.Contains(out, "Lap 1/") {
			t.Errorf("%s: HUD missing from render", g.ID())
		}
		if !strings.ContainsRune(out, PlayerChar) {
			t.Errorf("%s: player not drawn", g.ID())
		}
		if !strings.ContainsRune(out, RailChar) {
			t.Errorf("%s: road not drawn", g.ID())
		}
	}
}

func TestGameRenderOverlays(t *testing.T) {
	useConfigFile(t, "")
	g := NewOval()
	g.Reset(testRuntime())
	racing(g.engine)
	screen := core.NewScreen(80, 24)

	g.engine.TogglePause()
	g.Render(screen)
	if !strings.Contains(screen.String(), "PAUSED") {
		t.Error("pause overlay missing")
	}

	g.engine.TogglePause()
	g.engine.state.lapsToWin = 1
	g.engine.state.player.Progress = 0.999
	for i := range g.engine.state.ai {
		g.engine.state.ai[i].Progress = 0
	}
	g.engine.Step(testDT)
	g.Render(screen)
	if !strings.Contains(screen.String(), "VICTORY!") {
		t.Error("victory overlay missing")
	}
}

func TestGameRenderTooSmall(t *testing.T) {
	useConfigFile(t, "")
	g := NewBoulevard()
	g.Reset(testRuntime())
	screen := core.NewScreen(20, 6)
	g.Render(screen)
	if !strings.Contains(screen.String(), "too small") {
		t.Error("expected a too-small message")
	}
}

func TestGameUsesConfigFile(t *testing.T) {
	useConfigFile(t, "race:\n  laps_to_win: 1\nai:\n  count: 2\n")

	g := NewOval()
	g.Reset(testRuntime())

	snap := g.Snapshot()
	if snap.TotalLaps != 1 || len(snap.AI) != 2 {
		t.Errorf("got %d laps and %d opponents, want 1 and 2", snap.TotalLaps, len(snap.AI))
	}
	if _, ok := snap.Track.Path.(*ClosedLoopPath); !ok {
		t.Error("the oval keeps its loop regardless of the file's track kind")
	}
}
