// Package config handles configuration for the RecruitIQ CLI client.
package config

// Config holds runtime settings for the client.
//
// Fields:
//   - ServerBaseURL: base URL of the backend HTTP API.
//   - StateDir: subdirectory of the working directory holding the persisted
//     session file.
type Config struct {
	ServerBaseURL string `env:"SERVER_BASE_URL" json:"server_base_url"`
	StateDir      string `env:"STATE_DIR" json:"state_dir"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.StateDir = ".recruitiq"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present), the environment, and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
