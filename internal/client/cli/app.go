// Package cli is the terminal front end: a small REPL over the typed API
// client, with the OTP countdown and role-based landing routes rendered as
// text.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/rashid4567/recruitiq/internal/client/api"
	"github.com/rashid4567/recruitiq/internal/client/config"
	"github.com/rashid4567/recruitiq/internal/client/session"
)

type App struct {
	config   *config.Config
	sessions *session.Manager
	api      *api.Client
	reader   *bufio.Reader
	out      *os.File
}

func NewApp(c *config.Config) (*App, error) {
	sessions, err := session.NewManager(c.StateDir)
	if err != nil {
		return nil, err
	}

	apiClient, err := api.NewClient(c.ServerBaseURL, sessions)
	if err != nil {
		return nil, err
	}

	return &App{
		config:   c,
		sessions: sessions,
		api:      apiClient,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.sessions.Get().LoggedIn()
}
