package cli

import (
	"context"
	"errors"
	"log"

	"github.com/rashid4567/recruitiq/internal/client/routing"
	"github.com/rashid4567/recruitiq/internal/common"
)

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorBadPassword):
			log.Printf("Login unsuccessful: invalid email or password")
		case errors.Is(err, common.ErrAccountDeactivated):
			log.Printf("Login unsuccessful: this account has been deactivated")
		default:
			log.Printf("Login unsuccessful: %s", err.Error())
		}
		return err
	}

	log.Printf("Login successful. Continue at %s", routing.Route(user.Role, user.ProfileCompleted))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	// Fire-and-forget: the local session is gone whatever the server says.
	_ = a.api.Logout(ctx)
	log.Printf("Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	user, ok := a.api.SessionUser()
	if !ok {
		log.Printf("Not logged in")
		return nil
	}
	log.Printf("User %s, role %s, landing route %s",
		user.ID, user.Role, routing.Route(user.Role, user.ProfileCompleted))
	return nil
}
