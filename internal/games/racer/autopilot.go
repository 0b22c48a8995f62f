package racer

import (
	"math"

	"github.com/vovakirdan/tui-racer/internal/core"
)

// Autopilot look-ahead, in track fractions.
const (
	autopilotPickupRange   = 0.08
	autopilotObstacleRange = 0.03
	autopilotGain          = 3.0
)

// Autopilot picks a steering intent and a boost decision for the player
// from a snapshot: it heads for the next coin and swerves around
// obstacles right ahead. Used by headless simulations and demos.
func Autopilot(s Snapshot) (turn float64, boost bool) {
	if s.Phase != PhaseRacing && s.Phase != PhaseCountdown {
		return 0, false
	}
	path := s.Track.Path
	p := s.Player

	target := p.Lane
	best := math.Inf(1)
	for _, pk := range s.Track.Pickups {
		if pk.Collected {
			continue
		}
		d := path.ProgressDelta(p.Progress, pk.Progress)
		if d > 0 && d < autopilotPickupRange && d < best {
			best = d
			target = pk.Lane
		}
	}

	for _, ob := range s.Track.Obstacles {
		d := path.ProgressDelta(p.Progress, ob.Progress)
		if d <= 0 || d > autopilotObstacleRange {
			continue
		}
		if math.Abs(target-ob.Lane) < obstacleLaneReach {
			if ob.Lane >= 0 {
				target = ob.Lane - 2*obstacleLaneReach
			} else {
				target = ob.Lane + 2*obstacleLaneReach
			}
		}
	}

	target = core.ClampF(target, -0.9, 0.9)
	turn = core.ClampF((target-p.Lane)*autopilotGain, -1, 1)
	boost = s.Phase == PhaseRacing && p.BoostCooldown <= 0 && !p.Boosting()
	return turn, boost
}

// Drive runs the race under the autopilot in fixed dt steps until it
// finishes or limit seconds of race time have passed. each, if set, sees
// every snapshot after a step. Drive reports whether the race finished.
func Drive(e *Engine, dt, limit float64, each func(Snapshot)) bool {
	e.Start()
	for t := 0.0; t < limit; t += dt {
		turn, boost := Autopilot(e.Snapshot())
		e.SetTurn(turn)
		if boost {
			e.TryBoost()
		}
		e.Step(dt)
		if each != nil {
			each(e.Snapshot())
		}
		if e.Phase() == PhaseFinished {
			return true
		}
	}
	return false
}
