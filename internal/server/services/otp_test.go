package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rashid4567/recruitiq/internal/common"
	"github.com/rashid4567/recruitiq/internal/server/models"
	"github.com/rashid4567/recruitiq/internal/server/repositories/otpchallenges"
)

type fakeSender struct {
	emails []string
	codes  []string
	err    error
}

func (f *fakeSender) SendOtp(ctx context.Context, email, code string) error {
	if f.err != nil {
		return f.err
	}
	f.emails = append(f.emails, email)
	f.codes = append(f.codes, code)
	return nil
}

func newTestOtpService(t *testing.T) (*OtpService, *fakeSender, *fakeRepoManager) {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })

	rm := &fakeRepoManager{
		users:    &fakeUsersRepo{byEmailErr: common.ErrorNotFound},
		refresh:  &fakeRefreshRepo{},
		profiles: &fakeProfilesRepo{},
	}
	sender := &fakeSender{}
	s := NewOtpService(db, otpchallenges.NewMemoryRepository(), rm, sender)
	return s, sender, rm
}

func payloadFor(role common.Role) models.RegistrationPayload {
	return models.RegistrationPayload{FullName: "Test User", PasswordHash: "hash", Role: role}
}

func TestOtp_IssueThenVerify(t *testing.T) {
	s, sender, _ := newTestOtpService(t)
	base := time.Now()
	s.now = func() time.Time { return base }

	expires, err := s.Issue(context.Background(), "New@X.com", common.RoleCandidate, payloadFor(common.RoleCandidate))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if got, want := expires, base.Add(common.OtpWindow); !got.Equal(want) {
		t.Fatalf("expiry %v, want %v", got, want)
	}
	if len(sender.codes) != 1 || len(sender.codes[0]) != common.OtpCodeLength {
		t.Fatalf("unexpected sent codes: %v", sender.codes)
	}
	if sender.emails[0] != "new@x.com" {
		t.Fatalf("email not normalized: %q", sender.emails[0])
	}

	// One second before expiry is still inside the window.
	s.now = func() time.Time { return base.Add(common.OtpWindow - time.Second) }
	payload, err := s.Verify(context.Background(), "new@x.com", sender.codes[0])
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if payload.FullName != "Test User" || payload.Role != common.RoleCandidate {
		t.Fatalf("payload not returned intact: %+v", payload)
	}

	// The challenge is single-use.
	if _, err := s.Verify(context.Background(), "new@x.com", sender.codes[0]); !errors.Is(err, common.ErrOtpNotFound) {
		t.Fatalf("expected ErrOtpNotFound after consumption, got %v", err)
	}
}

func TestOtp_ExpiredAtBoundary(t *testing.T) {
	s, sender, _ := newTestOtpService(t)
	base := time.Now()
	s.now = func() time.Time { return base }

	if _, err := s.Issue(context.Background(), "a@x.com", common.RoleCandidate, payloadFor(common.RoleCandidate)); err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Exactly at the expiry instant the correct code is already dead.
	s.now = func() time.Time { return base.Add(common.OtpWindow) }
	if _, err := s.Verify(context.Background(), "a@x.com", sender.codes[0]); !errors.Is(err, common.ErrOtpExpired) {
		t.Fatalf("expected ErrOtpExpired, got %v", err)
	}

	// Expiry destroyed the challenge.
	if _, err := s.Verify(context.Background(), "a@x.com", sender.codes[0]); !errors.Is(err, common.ErrOtpNotFound) {
		t.Fatalf("expected ErrOtpNotFound after expiry, got %v", err)
	}
}

func TestOtp_MismatchKeepsChallenge(t *testing.T) {
	s, sender, _ := newTestOtpService(t)

	if _, err := s.Issue(context.Background(), "a@x.com", common.RoleRecruiter, payloadFor(common.RoleRecruiter)); err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := s.Verify(context.Background(), "a@x.com", "000000"); !errors.Is(err, common.ErrOtpMismatch) {
		t.Fatalf("expected ErrOtpMismatch, got %v", err)
	}

	// A mistype does not burn the window; the right code still works.
	if _, err := s.Verify(context.Background(), "a@x.com", sender.codes[0]); err != nil {
		t.Fatalf("verify after mismatch: %v", err)
	}
}

func TestOtp_ReissueInvalidatesOldCode(t *testing.T) {
	s, sender, _ := newTestOtpService(t)

	if _, err := s.Issue(context.Background(), "a@x.com", common.RoleCandidate, payloadFor(common.RoleCandidate)); err != nil {
		t.Fatalf("issue: %v", err)
	}
	first := sender.codes[0]

	s.makeCode = func(n int) (string, error) { return "424242", nil }
	if _, err := s.Issue(context.Background(), "a@x.com", common.RoleCandidate, payloadFor(common.RoleCandidate)); err != nil {
		t.Fatalf("reissue: %v", err)
	}

	if first != "424242" {
		if _, err := s.Verify(context.Background(), "a@x.com", first); !errors.Is(err, common.ErrOtpMismatch) {
			t.Fatalf("old code must be dead, got %v", err)
		}
	}
	if _, err := s.Verify(context.Background(), "a@x.com", "424242"); err != nil {
		t.Fatalf("new code must verify: %v", err)
	}
}

func TestOtp_IssueRejectsRegisteredEmail(t *testing.T) {
	s, _, rm := newTestOtpService(t)
	rm.users.byEmailErr = nil
	rm.users.byEmailOut = &models.User{ID: "u-1", Email: "a@x.com"}

	if _, err := s.Issue(context.Background(), "a@x.com", common.RoleCandidate, payloadFor(common.RoleCandidate)); !errors.Is(err, common.ErrorEmailTaken) {
		t.Fatalf("expected ErrorEmailTaken, got %v", err)
	}
}

func TestOtp_IssueRejectsAdminRole(t *testing.T) {
	s, _, _ := newTestOtpService(t)

	if _, err := s.Issue(context.Background(), "a@x.com", common.RoleAdmin, payloadFor(common.RoleAdmin)); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("expected ErrorValidation, got %v", err)
	}
}

func TestOtp_VerifyUnknownEmail(t *testing.T) {
	s, _, _ := newTestOtpService(t)

	if _, err := s.Verify(context.Background(), "nobody@x.com", "123456"); !errors.Is(err, common.ErrOtpNotFound) {
		t.Fatalf("expected ErrOtpNotFound, got %v", err)
	}
}
