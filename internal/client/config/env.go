package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays Config with values from environment variables declared
// in the struct's env tags.
func parseEnv(cfg *Config) {
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}
}
