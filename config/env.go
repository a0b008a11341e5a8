package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// ParseEnv overrides fields of target from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the JSON file at path into target, then applies environment
// overrides. An empty path skips the file.
func Load(path string, target any) error {
	if path != "" {
		configBytes, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		if err := json.Unmarshal(configBytes, target); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	return ParseEnv(target)
}
