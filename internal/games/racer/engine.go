// Package racer implements an arcade lane racer: the player and AI racers
// run laps along a track, collecting pickups, dodging obstacles and boosting.
package racer

import (
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-racer/internal/config"
	"github.com/vovakirdan/tui-racer/internal/core"
)

// Phase is the race state machine position.
type Phase string

const (
	PhaseLoading   Phase = "loading"
	PhaseCountdown Phase = "countdown"
	PhaseRacing    Phase = "racing"
	PhasePaused    Phase = "paused"
	PhaseFinished  Phase = "finished"
)

// Interaction tunables.
const (
	edgeLane          = 0.98
	edgePenalty       = 0.7
	pickupReach       = 0.01
	pickupLaneReach   = 0.3
	obstacleReach     = 0.008
	obstacleLaneReach = 0.35
	obstaclePenalty   = 0.5
	toggleLaneBand    = 0.6
)

// Racer is the shared shape of the player and AI racers.
type Racer struct {
	Progress      float64 // [0,1) along the track; AI may exceed 1 on straights
	Lane          float64 // [-1,1]
	TargetLane    float64 // AI weaving target
	Speed         float64 // track fractions per second
	Laps          int
	BoostTimer    float64 // seconds of boost left
	BoostCooldown float64 // seconds until the next boost is allowed
	Pickups       int     // player only

	weavePhase float64
}

// Total is the race distance used for ranking.
func (r Racer) Total() float64 {
	return r.Progress + float64(r.Laps)
}

// Boosting reports whether a boost is active.
func (r Racer) Boosting() bool {
	return r.BoostTimer > 0
}

// Hooks are called synchronously from Step.
type Hooks struct {
	OnPickup func(count int)
	OnFinish func(placement int, seconds float64, pickups int)
}

// Options configures a new Engine.
type Options struct {
	Config config.RacerConfig
	Hooks  Hooks
	// Rand drives pickup scatter and AI boost timing. Nil seeds from the clock.
	Rand *rand.Rand
}

// raceState is the authoritative state. Only the Engine touches it.
type raceState struct {
	phase         Phase
	elapsed       float64
	countdown     float64
	track         *Track
	player        Racer
	ai            []Racer
	lapsToWin     int
	lastPlacement int
}

// intent is the latest input, written by commands and read by Step.
type intent struct {
	turn  float64 // [-1,1], level-triggered
	accel float64 // [0,1], reserved
}

// Engine owns one race and advances it frame by frame.
// It is not safe for concurrent use; the frame driver and the input
// layer must run on the same goroutine.
type Engine struct {
	cfg    config.RacerConfig
	hooks  Hooks
	rng    *rand.Rand
	state  raceState
	intent intent
	drag   *drag
}

// NewEngine builds a race in the loading phase. Call Start to begin the countdown.
func NewEngine(opts Options) *Engine {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e := &Engine{
		cfg:   opts.Config,
		hooks: opts.Hooks,
		rng:   rng,
	}
	e.build()
	e.state.phase = PhaseLoading
	return e
}

// build discards the current race and creates fresh track and racers.
func (e *Engine) build() {
	path := BuildPath(e.cfg.Track)
	e.state = raceState{
		phase:     PhaseCountdown,
		countdown: e.cfg.Race.Countdown,
		track:     NewTrack(path, e.cfg.Track.Pickups, e.cfg.Track.Obstacles, e.rng),
		ai:        newOpponents(e.cfg.AI.Count, e.cfg.AI),
		lapsToWin: e.cfg.Race.LapsToWin,
	}
	e.drag = nil
}

// Start moves a loading race into its countdown. No-op in any other phase.
func (e *Engine) Start() {
	if e.state.phase == PhaseLoading {
		e.state.phase = PhaseCountdown
	}
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	return e.state.phase
}

// Step advances the race by dt seconds. dt is clamped to [0, max_dt] so a
// long frame cannot tunnel through pickups or skip a lap boundary.
func (e *Engine) Step(dt float64) {
	if math.IsNaN(dt) {
		return
	}
	dt = core.ClampF(dt, 0, e.cfg.Race.MaxDT)

	s := &e.state
	switch s.phase {
	case PhaseLoading, PhasePaused, PhaseFinished:
		return
	case PhaseCountdown:
		s.countdown -= dt
		if s.countdown <= 0 {
			s.countdown = 0
			s.phase = PhaseRacing
		}
	}

	// Integration also runs during the countdown
	s.elapsed += dt
	p := &s.player
	pc := e.cfg.Player

	p.BoostCooldown = math.Max(0, p.BoostCooldown-dt)
	if p.BoostTimer > 0 {
		p.BoostTimer = math.Max(0, p.BoostTimer-dt)
	}

	p.Lane = core.ClampF(p.Lane+e.intent.turn*pc.TurnRate*dt, -1, 1)

	speed := pc.BaseSpeed
	if p.Boosting() {
		speed = pc.BoostSpeed
	}
	if math.Abs(p.Lane) > edgeLane {
		speed *= edgePenalty
	}

	e.collectPickups()
	speed *= e.obstacleFactor()

	p.Speed = speed
	next, crossed := s.track.Path.LapWrap(p.Progress + speed*dt)
	p.Progress = next
	if crossed {
		p.Laps++
	}

	if p.Laps >= s.lapsToWin {
		e.finish()
		return
	}

	updateOpponents(dt, s.ai, s.track.Path, *p, e.cfg.AI, e.rng)
}

// collectPickups marks every pickup in reach and reports each one.
func (e *Engine) collectPickups() {
	s := &e.state
	path := s.track.Path
	for i := range s.track.Pickups {
		pk := &s.track.Pickups[i]
		if pk.Collected {
			continue
		}
		if math.Abs(path.ProgressDelta(s.player.Progress, pk.Progress)) < pickupReach &&
			math.Abs(s.player.Lane-pk.Lane) < pickupLaneReach {
			pk.Collected = true
			s.player.Pickups++
			if e.hooks.OnPickup != nil {
				e.hooks.OnPickup(1)
			}
		}
	}
}

// obstacleFactor is the speed multiplier from obstacles overlapping the player.
// It applies to this step only.
func (e *Engine) obstacleFactor() float64 {
	s := &e.state
	path := s.track.Path
	factor := 1.0
	for _, ob := range s.track.Obstacles {
		if math.Abs(path.ProgressDelta(s.player.Progress, ob.Progress)) < obstacleReach &&
			math.Abs(s.player.Lane-ob.Lane) < obstacleLaneReach {
			factor *= obstaclePenalty
		}
	}
	return factor
}

func (e *Engine) finish() {
	s := &e.state
	s.phase = PhaseFinished
	s.lastPlacement = Placement(s.player, s.ai)
	if e.hooks.OnFinish != nil {
		e.hooks.OnFinish(s.lastPlacement, s.elapsed, s.player.Pickups)
	}
}

// Placement ranks the player: 1 plus the number of AI racers further along.
func Placement(player Racer, ai []Racer) int {
	place := 1
	total := player.Total()
	for _, a := range ai {
		if a.Total() > total {
			place++
		}
	}
	return place
}

// steerable reports whether steering input is accepted.
func (e *Engine) steerable() bool {
	return e.state.phase != PhaseLoading && e.state.phase != PhaseFinished
}

// SetTurn sets the continuous steering intent, clamped to [-1, 1].
func (e *Engine) SetTurn(dir float64) {
	if !e.steerable() || math.IsNaN(dir) {
		return
	}
	e.intent.turn = core.ClampF(dir, -1, 1)
}

// SetAccel records the throttle, clamped to [0, 1]. Integration does not use it yet.
func (e *Engine) SetAccel(amount float64) {
	if math.IsNaN(amount) {
		return
	}
	e.intent.accel = core.ClampF(amount, 0, 1)
}

// TryBoost starts a boost if the cooldown has run out. Otherwise it is ignored.
func (e *Engine) TryBoost() {
	s := &e.state
	if s.phase != PhaseRacing && s.phase != PhaseCountdown {
		return
	}
	if s.player.BoostCooldown > 0 {
		return
	}
	s.player.BoostTimer = e.cfg.Player.BoostDuration
	s.player.BoostCooldown = e.cfg.Player.BoostCooldown
}

// TogglePause switches between racing and paused only.
func (e *Engine) TogglePause() {
	switch e.state.phase {
	case PhaseRacing:
		e.state.phase = PhasePaused
	case PhasePaused:
		e.state.phase = PhaseRacing
	}
}

// Restart throws the current race away and starts a fresh countdown.
func (e *Engine) Restart() {
	e.build()
}

// ToggleLane snaps the player to the opposite lane band.
func (e *Engine) ToggleLane() {
	s := &e.state
	if s.phase != PhaseRacing && s.phase != PhaseCountdown {
		return
	}
	if s.player.Lane >= 0 {
		s.player.Lane = -toggleLaneBand
	} else {
		s.player.Lane = toggleLaneBand
	}
}
