package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/rashid4567/recruitiq/internal/client/countdown"
	"github.com/rashid4567/recruitiq/internal/client/routing"
	"github.com/rashid4567/recruitiq/internal/client/session"
	"github.com/rashid4567/recruitiq/internal/common"
)

// Register runs the OTP registration flow: collect the registration form,
// request a challenge, count the 60-second window down on screen, and
// verify the typed code. A mistyped code can be retried inside the window;
// an expired one requires a fresh send.
func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	fullName, err := GetSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	role, err := GetRole(a.reader, a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	expiresAt, err := a.api.SendOtp(ctx, email, common.Role(role), fullName, string(password))
	if err != nil {
		if errors.Is(err, common.ErrorEmailTaken) {
			log.Printf("This email is already registered; use 'login' instead.")
			return err
		}
		log.Printf("Could not send verification code: %v", err)
		return err
	}

	// Persist the pending challenge so a restarted client can resume the
	// countdown for the same email.
	_ = a.sessions.Update(func(s *session.Session) {
		s.OtpEmail = email
		s.OtpExpiresAt = expiresAt
	})

	return a.verifyLoop(ctx, email, expiresAt)
}

// verifyLoop renders the countdown and prompts for the code until it
// verifies, the window runs out, or the user gives up with an empty line.
func (a *App) verifyLoop(ctx context.Context, email string, expiresAt time.Time) error {
	countdownCtx, stopCountdown := context.WithCancel(ctx)
	defer stopCountdown()
	go countdown.New(expiresAt).Run(countdownCtx, func(left int) {
		if left > 0 && left%15 == 0 {
			fmt.Fprintf(a.out, "(code expires in %ds)\n", left)
		}
	})

	for {
		code, err := GetSimpleText(a.reader, "Enter the 6-digit code (empty line to cancel)", a.out)
		if err != nil {
			return err
		}
		if code == "" {
			return nil
		}

		user, err := a.api.VerifyOtp(ctx, email, code)
		switch {
		case err == nil:
			stopCountdown()
			_ = a.sessions.Update(func(s *session.Session) {
				s.OtpEmail = ""
				s.OtpExpiresAt = time.Time{}
			})
			log.Printf("Welcome, %s! Continue at %s", user.FullName, routing.Route(user.Role, user.ProfileCompleted))
			return nil
		case errors.Is(err, common.ErrOtpMismatch):
			log.Printf("That code does not match, try again.")
		case errors.Is(err, common.ErrOtpExpired), errors.Is(err, common.ErrOtpNotFound):
			log.Printf("The code expired; run 'register' again to get a new one.")
			return err
		default:
			log.Printf("Verification failed: %v", err)
			return err
		}
	}
}

// ResumePendingOtp re-enters the verify loop when a persisted challenge is
// still inside its window at startup.
func (a *App) ResumePendingOtp(ctx context.Context) {
	s := a.sessions.Get()
	if s.OtpEmail == "" {
		return
	}
	if countdown.Remaining(time.Now(), s.OtpExpiresAt) == 0 {
		_ = a.sessions.Update(func(s *session.Session) {
			s.OtpEmail = ""
			s.OtpExpiresAt = time.Time{}
		})
		return
	}
	log.Printf("Resuming pending verification for %s", s.OtpEmail)
	_ = a.verifyLoop(ctx, s.OtpEmail, s.OtpExpiresAt)
}
