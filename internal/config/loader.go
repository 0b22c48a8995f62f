package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const racerConfigFile = "racer.yaml"

// LoadRacer loads the race configuration.
// Search order: customPath -> ~/.arcade/configs/racer.yaml -> ./configs/racer.yaml -> embedded default.
// Files are decoded on top of the defaults, so partial files are fine.
func LoadRacer(customPath string) (RacerConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return RacerConfig{}, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := parseRacer(data)
		if err != nil {
			return RacerConfig{}, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Broken user or local files fall through to the next candidate
	if userCfgPath := userConfigPath(racerConfigFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parseRacer(data); err == nil {
				return cfg, nil
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", racerConfigFile)); err == nil {
		if cfg, err := parseRacer(data); err == nil {
			return cfg, nil
		}
	}

	cfg, err := parseRacer(defaultRacerYAML)
	if err != nil {
		return DefaultRacerConfig(), nil
	}
	return cfg, nil
}

// parseRacer decodes YAML over the hard-coded defaults and validates the result.
func parseRacer(data []byte) (RacerConfig, error) {
	cfg := DefaultRacerConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RacerConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return RacerConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}
