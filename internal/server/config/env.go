package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays Config with values from the environment, using the
// `env` struct tags. Unset variables leave the current values in place.
func parseEnv(cfg *Config) {
	_ = env.Parse(cfg)
}
