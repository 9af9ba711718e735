package config

import (
	"flag"
	"os"

	"github.com/rashid4567/recruitiq/internal/flagx"
)

// parseFlags populates selected client Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the backend API
//	-s string   state directory for the session file
//
// The function filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the backend API")
	fs.StringVar(&cfg.StateDir, "s", cfg.StateDir, "state directory")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
