package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and to seed their random source.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Frames per second requested from the frame driver
	Seed     int64 // RNG seed, 0 means "pick one from the clock"
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0,
	}
}

// GameState is the coarse status the platform needs from a game.
type GameState struct {
	Score    int  // Pickups collected in the current race
	GameOver bool // Race finished
	Paused   bool
}

// EventKind identifies what happened during a step.
type EventKind int

const (
	EventPickup EventKind = iota + 1
	EventFinish
)

// Event is emitted by a game step for the platform to act on
// (wallet credits, result persistence).
type Event struct {
	Kind      EventKind
	Count     int     // EventPickup: items collected
	Placement int     // EventFinish: 1 = first
	Seconds   float64 // EventFinish: elapsed race time
	Pickups   int     // EventFinish: pickups collected during the race
	Laps      int     // EventFinish: laps raced
}

// StepResult is returned by Game.Step() after each simulation frame.
type StepResult struct {
	State  GameState
	Events []Event
}
