// Package config loads configuration structs from the process environment.
//
// Struct fields declare their variables with `env` tags and defaults with
// `envDefault`; every registry binary uses the MEDINEX_ prefix by
// convention.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv populates target from environment variables declared in its
// env tags.
func ParseEnv(target any) error {
	if target == nil {
		return fmt.Errorf("config target is required")
	}
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse environment config: %w", err)
	}
	return nil
}
