package config

import (
	"encoding/json"
	"os"

	"github.com/rashid4567/recruitiq/internal/flagx"
)

// parseJson overlays Config with values from the JSON file named by the
// -c/-config flag, if any. Missing files are ignored so the flag can point
// at an optional local override.
func parseJson(cfg *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	_ = json.Unmarshal(data, cfg)
}
