package config

import (
	_ "embed"
)

//go:embed defaults/racer.yaml
var defaultRacerYAML []byte

// DefaultRacerConfig returns the hard-coded race configuration.
// The embedded YAML mirrors these values.
func DefaultRacerConfig() RacerConfig {
	return RacerConfig{
		Track: TrackConfig{
			Kind:      TrackStraight,
			Radius:    260,
			RadiusY:   160,
			RoadWidth: 70,
			Pickups:   45,
			Obstacles: 6,
		},
		Race: RaceConfig{
			LapsToWin: 3,
			Countdown: 3.0,
			MaxDT:     0.02,
		},
		Player: PlayerConfig{
			BaseSpeed:     0.18,
			TurnRate:      1.8,
			BoostSpeed:    0.33,
			BoostDuration: 1.5,
			BoostCooldown: 3.5,
		},
		AI: AIConfig{
			Count:            2,
			BaseSpeed:        0.16,
			BoostBonus:       0.12,
			BoostDuration:    1.2,
			BoostCooldownMin: 3.5,
			BoostCooldownMax: 5.5,
			TrackLaps:        true,
		},
		Input: InputConfig{
			PointerSensitivity: 240,
			SteerHold:          0.15,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultRacerYAML
}
