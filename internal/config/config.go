// Package config provides YAML-based race configuration loading and
// difficulty presets for the racer.
package config

import (
	"errors"
	"fmt"
)

// Track kinds.
const (
	TrackStraight = "straight"
	TrackLoop     = "loop"
)

// MaxStepDT is the largest per-step delta a config may allow. Longer steps
// can carry a racer past a pickup or obstacle without touching it.
const MaxStepDT = 0.02

// RacerConfig contains all tunables for a race.
type RacerConfig struct {
	Track  TrackConfig  `yaml:"track"`
	Race   RaceConfig   `yaml:"race"`
	Player PlayerConfig `yaml:"player"`
	AI     AIConfig     `yaml:"ai"`
	Input  InputConfig  `yaml:"input"`
}

// TrackConfig describes the path geometry and what is scattered on it.
type TrackConfig struct {
	Kind      string  `yaml:"kind"`   // "straight" or "loop"
	Radius    float64 `yaml:"radius"`   // loop: X radius, straight: anchors sit at +/-2*radius
	RadiusY   float64 `yaml:"radius_y"` // loop only
	RoadWidth float64 `yaml:"road_width"`
	Pickups   int     `yaml:"pickups"`
	Obstacles int     `yaml:"obstacles"`
}

// RaceConfig defines race rules.
type RaceConfig struct {
	LapsToWin int     `yaml:"laps_to_win"`
	Countdown float64 `yaml:"countdown"` // seconds
	MaxDT     float64 `yaml:"max_dt"`    // per-step delta clamp, seconds
}

// PlayerConfig defines the player's kinematics.
// Speeds are in track fractions per second.
type PlayerConfig struct {
	BaseSpeed     float64 `yaml:"base_speed"`
	TurnRate      float64 `yaml:"turn_rate"` // lane units per second at full steer
	BoostSpeed    float64 `yaml:"boost_speed"`
	BoostDuration float64 `yaml:"boost_duration"`
	BoostCooldown float64 `yaml:"boost_cooldown"`
}

// AIConfig defines opponent behavior.
type AIConfig struct {
	Count            int     `yaml:"count"`
	BaseSpeed        float64 `yaml:"base_speed"`
	BoostBonus       float64 `yaml:"boost_bonus"`
	BoostDuration    float64 `yaml:"boost_duration"`
	BoostCooldownMin float64 `yaml:"boost_cooldown_min"`
	BoostCooldownMax float64 `yaml:"boost_cooldown_max"`
	TrackLaps        bool    `yaml:"track_laps"` // count AI laps on closed loops
}

// InputConfig defines how raw input maps onto steering.
type InputConfig struct {
	PointerSensitivity float64 `yaml:"pointer_sensitivity"` // drag distance for the full lane range
	SteerHold          float64 `yaml:"steer_hold"`          // seconds a steer key stays held
}

// Validate reports the first invalid field, if any.
func (c RacerConfig) Validate() error {
	switch c.Track.Kind {
	case TrackStraight, TrackLoop:
	default:
		return fmt.Errorf("config: unknown track kind %q", c.Track.Kind)
	}
	if c.Track.Radius <= 0 || c.Track.RoadWidth <= 0 {
		return errors.New("config: track radius and road width must be positive")
	}
	if c.Track.Pickups < 0 || c.Track.Obstacles < 0 {
		return errors.New("config: pickup and obstacle counts cannot be negative")
	}
	if c.Race.LapsToWin < 1 {
		return fmt.Errorf("config: laps_to_win must be at least 1, got %d", c.Race.LapsToWin)
	}
	if c.Race.MaxDT <= 0 || c.Race.MaxDT > MaxStepDT {
		return fmt.Errorf("config: max_dt must be in (0, %g], got %g", MaxStepDT, c.Race.MaxDT)
	}
	if c.Player.BaseSpeed <= 0 || c.Player.BoostSpeed <= 0 {
		return errors.New("config: player speeds must be positive")
	}
	if c.AI.Count < 0 {
		return errors.New("config: ai count cannot be negative")
	}
	if c.AI.BoostCooldownMax < c.AI.BoostCooldownMin {
		return fmt.Errorf("config: ai boost cooldown range [%g, %g] is inverted",
			c.AI.BoostCooldownMin, c.AI.BoostCooldownMax)
	}
	if c.Input.PointerSensitivity <= 0 {
		return errors.New("config: pointer_sensitivity must be positive")
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ApplyRacerPreset adjusts opponents and race length for a preset.
// "normal", "fixed" and unknown presets keep the loaded values.
func ApplyRacerPreset(cfg *RacerConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.AI.Count = 1
		cfg.AI.BaseSpeed *= 0.85
		cfg.Race.LapsToWin = 2
	case DifficultyHard:
		cfg.AI.Count = 3
		cfg.AI.BaseSpeed *= 1.1
		cfg.AI.BoostCooldownMin *= 0.8
		cfg.AI.BoostCooldownMax *= 0.8
	}
}
