package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/rashid4567/recruitiq/internal/client/routing"
)

func (a *App) getStatus() string {
	s := a.sessions.Get()
	if !s.LoggedIn() {
		return ""
	}
	return fmt.Sprintf("(%s @ %s)", s.Role, routing.Route(s.Role, s.ProfileCompleted))
}

func (a *App) Root(ctx context.Context) {
	log.Println("Welcome to RecruitIQ CLI (type 'help' for commands)")

	a.ResumePendingOtp(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
