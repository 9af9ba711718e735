// Package services contains server-side business logic. This file implements
// OtpService, the challenge store gating registration behind a one-time
// passcode bound to an email, a role, and the full pending registration
// payload.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rashid4567/recruitiq/internal/common"
	"github.com/rashid4567/recruitiq/internal/cryptox"
	"github.com/rashid4567/recruitiq/internal/server/models"
	"github.com/rashid4567/recruitiq/internal/server/repositories/otpchallenges"
	"github.com/rashid4567/recruitiq/internal/server/repositories/repomanager"
)

// OtpService issues and verifies registration challenges. The OTP is the
// single gate: a verified challenge hands back the registration payload and
// nothing else is needed to create the User.
type OtpService struct {
	db         *sql.DB
	repo       otpchallenges.Repository
	rm         repomanager.RepositoryManager
	sender     OtpSender
	window     time.Duration
	now        func() time.Time
	makeCode   func(n int) (string, error)
	codeLength int
}

// NewOtpService constructs an OtpService with the standard 60-second window.
func NewOtpService(db *sql.DB, repo otpchallenges.Repository, rm repomanager.RepositoryManager, sender OtpSender) *OtpService {
	return &OtpService{
		db:         db,
		repo:       repo,
		rm:         rm,
		sender:     sender,
		window:     common.OtpWindow,
		now:        time.Now,
		makeCode:   common.MakeRandDigitCode,
		codeLength: common.OtpCodeLength,
	}
}

// Issue creates a fresh challenge for email, replacing any pending one.
// Re-issuing never extends the old window; the old code is dead the moment
// the new one is stored. Returns the expiry of the new window.
func (s *OtpService) Issue(ctx context.Context, email string, role common.Role, payload models.RegistrationPayload) (time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return time.Time{}, common.ErrorValidation
	}
	if !common.RegistrableRole(string(role)) {
		return time.Time{}, common.ErrorValidation
	}

	// A registered email cannot re-enter registration.
	if _, err := s.rm.Users(s.db).GetByEmail(ctx, email); err == nil {
		return time.Time{}, common.ErrorEmailTaken
	} else if !errors.Is(err, common.ErrorNotFound) {
		return time.Time{}, common.ErrorInternal
	}

	code, err := s.makeCode(s.codeLength)
	if err != nil {
		return time.Time{}, common.ErrorInternal
	}

	payload.Role = role
	issuedAt := s.now()
	challenge := &models.OtpChallenge{
		Email:     email,
		Role:      role,
		CodeHash:  cryptox.HashCode(code),
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(s.window),
		Payload:   payload,
	}

	if err := s.repo.Put(ctx, challenge); err != nil {
		return time.Time{}, fmt.Errorf("error storing otp challenge: %w", err)
	}

	if err := s.sender.SendOtp(ctx, email, code); err != nil {
		return time.Time{}, fmt.Errorf("error sending otp: %w", err)
	}

	return challenge.ExpiresAt, nil
}

// Verify checks the code for email and, on success, destroys the challenge
// and returns the registration payload it carried.
//
// Outcomes: ErrOtpNotFound when no challenge is pending; ErrOtpExpired for
// any attempt at or after the expiry instant, regardless of code
// correctness (the challenge is destroyed); ErrOtpMismatch for a wrong code
// within the window (the challenge survives so the user can retype).
func (s *OtpService) Verify(ctx context.Context, email, code string) (*models.RegistrationPayload, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	challenge, err := s.repo.Get(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrOtpNotFound
		}
		return nil, common.ErrorInternal
	}

	if !s.now().Before(challenge.ExpiresAt) {
		_ = s.repo.Delete(ctx, email)
		return nil, common.ErrOtpExpired
	}

	if !cryptox.CheckCode(challenge.CodeHash, code) {
		return nil, common.ErrOtpMismatch
	}

	if err := s.repo.Delete(ctx, email); err != nil {
		return nil, common.ErrorInternal
	}

	payload := challenge.Payload
	return &payload, nil
}
