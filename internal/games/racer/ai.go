package racer

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-racer/internal/config"
	"github.com/vovakirdan/tui-racer/internal/core"
)

// Rubber band and weaving tunables.
const (
	rubberBandGain   = 0.25
	rubberBandMin    = -0.05
	rubberBandMax    = 0.10
	boostWindow      = -0.12 // AI boosts while its lead over the player is under this
	weaveSettle      = 0.05
	weaveAmplitude   = 0.5
	weaveEaseRate    = 2.0
	opponentSpacing  = 0.15
	opponentStart    = 0.25
	opponentLane     = 0.3
	opponentCooldown = 2.0
	cooldownStagger  = 0.8
)

// newOpponents lines up AI racers ahead of the start line on alternating sides.
func newOpponents(n int, cfg config.AIConfig) []Racer {
	ai := make([]Racer, n)
	for i := range ai {
		lane := opponentLane
		if i == 0 {
			lane = -opponentLane
		}
		ai[i] = Racer{
			Progress:      opponentStart + float64(i)*opponentSpacing,
			Lane:          lane,
			Speed:         cfg.BaseSpeed,
			BoostCooldown: opponentCooldown + float64(i)*cooldownStagger,
			weavePhase:    float64(i),
		}
	}
	return ai
}

// updateOpponents advances every AI racer by dt, chasing the player.
func updateOpponents(dt float64, ai []Racer, path Path, player Racer, cfg config.AIConfig, rng *rand.Rand) {
	for i := range ai {
		updateOpponent(dt, &ai[i], path, player, cfg, rng)
	}
}

func updateOpponent(dt float64, a *Racer, path Path, player Racer, cfg config.AIConfig, rng *rand.Rand) {
	// Positive when the player is ahead. Totals keep the gap right on a
	// straight, where the player restarts each lap but opponents run on.
	gap := path.ProgressDelta(a.Total(), player.Total())
	speed := cfg.BaseSpeed + rubberBand(gap)

	a.BoostCooldown = math.Max(0, a.BoostCooldown-dt)
	if gap > boostWindow && gap < 0 && a.BoostCooldown <= 0 && a.BoostTimer <= 0 {
		a.BoostTimer = cfg.BoostDuration
		a.BoostCooldown = cfg.BoostCooldownMin + rng.Float64()*(cfg.BoostCooldownMax-cfg.BoostCooldownMin)
	}
	if a.BoostTimer > 0 {
		speed += cfg.BoostBonus
		a.BoostTimer = math.Max(0, a.BoostTimer-dt)
	}

	if math.Abs(a.Lane-a.TargetLane) < weaveSettle {
		a.TargetLane = math.Sin(a.Progress*math.Pi+a.weavePhase) * weaveAmplitude
	}
	a.Lane += (a.TargetLane - a.Lane) * math.Min(1, dt*weaveEaseRate)

	a.Speed = speed
	next, crossed := path.Carry(a.Progress + speed*dt)
	a.Progress = next
	if crossed && cfg.TrackLaps {
		a.Laps++
	}
}

// rubberBand is the bounded speed correction for a given gap to the player.
func rubberBand(gap float64) float64 {
	return core.ClampF(gap*rubberBandGain, rubberBandMin, rubberBandMax)
}
