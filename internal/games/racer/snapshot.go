package racer

// Snapshot is an immutable view of the race for renderers and tests.
// Mutating it never affects the engine.
type Snapshot struct {
	Phase         Phase
	Elapsed       float64
	Countdown     float64
	TotalLaps     int
	Track         Track
	Player        Racer
	AI            []Racer
	LastPlacement int // 0 until the race finishes
}

// CurrentPlacement is the live ranking of the player.
func (s Snapshot) CurrentPlacement() int {
	return Placement(s.Player, s.AI)
}

// Snapshot returns a deep copy of the current race state.
func (e *Engine) Snapshot() Snapshot {
	s := e.state
	return Snapshot{
		Phase:         s.phase,
		Elapsed:       s.elapsed,
		Countdown:     s.countdown,
		TotalLaps:     s.lapsToWin,
		Track:         s.track.Clone(),
		Player:        s.player,
		AI:            append([]Racer(nil), s.ai...),
		LastPlacement: s.lastPlacement,
	}
}
