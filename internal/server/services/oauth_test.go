package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rashid4567/recruitiq/internal/common"
	"github.com/rashid4567/recruitiq/internal/server/models"
)

type fakeBridge struct {
	identity *OAuthIdentity
	err      error
}

func (f *fakeBridge) Resolve(ctx context.Context, credential string) (*OAuthIdentity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

func newTestOAuthService(t *testing.T, rm *fakeRepoManager) *OAuthService {
	t.Helper()
	db, mock := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })
	mock.MatchExpectationsInOrder(false)
	tokens := NewAuthService(db, rm, testConfig())
	return NewOAuthService(db, rm, tokens)
}

func roleOf(r common.Role) *common.Role { return &r }

func TestOAuth_ExistingUserLogsIn(t *testing.T) {
	rm := &fakeRepoManager{
		users: &fakeUsersRepo{byEmailOut: &models.User{
			ID: "u-1", Email: "jane@corp.io", Role: common.RoleRecruiter,
		}},
		refresh:  &fakeRefreshRepo{},
		profiles: &fakeProfilesRepo{},
	}
	s := newTestOAuthService(t, rm)

	bridge := &fakeBridge{identity: &OAuthIdentity{
		Provider: "google", ExternalID: "sub-1", Email: "Jane@Corp.IO", DisplayName: "Jane",
	}}

	pair, user, err := s.CompleteLogin(context.Background(), bridge, "cred", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "u-1" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("token pair incomplete")
	}
	if rm.users.createCalls != 0 {
		t.Fatal("existing user must not be recreated")
	}
}

func TestOAuth_RoleMismatchIssuesNothing(t *testing.T) {
	rm := &fakeRepoManager{
		users: &fakeUsersRepo{byEmailOut: &models.User{
			ID: "u-1", Email: "jane@corp.io", Role: common.RoleRecruiter,
		}},
		refresh:  &fakeRefreshRepo{},
		profiles: &fakeProfilesRepo{},
	}
	s := newTestOAuthService(t, rm)

	bridge := &fakeBridge{identity: &OAuthIdentity{Email: "jane@corp.io"}}

	_, _, err := s.CompleteLogin(context.Background(), bridge, "cred", roleOf(common.RoleCandidate))
	if !errors.Is(err, common.ErrRoleMismatch) {
		t.Fatalf("expected ErrRoleMismatch, got %v", err)
	}
	if rm.refresh.createCalls != 0 {
		t.Fatal("no session may be established on role mismatch")
	}
}

func TestOAuth_FirstTimeNeedsRole(t *testing.T) {
	rm := &fakeRepoManager{
		users:    &fakeUsersRepo{byEmailErr: common.ErrorNotFound},
		refresh:  &fakeRefreshRepo{},
		profiles: &fakeProfilesRepo{},
	}
	s := newTestOAuthService(t, rm)

	bridge := &fakeBridge{identity: &OAuthIdentity{Email: "new@x.com"}}

	_, _, err := s.CompleteLogin(context.Background(), bridge, "cred", nil)
	if !errors.Is(err, common.ErrRoleRequired) {
		t.Fatalf("expected ErrRoleRequired, got %v", err)
	}
	if rm.users.createCalls != 0 {
		t.Fatal("user must not be created without a declared role")
	}
}

func TestOAuth_FirstTimeCreatesUserAndProfile(t *testing.T) {
	rm := &fakeRepoManager{
		users:    &fakeUsersRepo{byEmailErr: common.ErrorNotFound},
		refresh:  &fakeRefreshRepo{},
		profiles: &fakeProfilesRepo{},
	}
	db, mock := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })
	mock.ExpectBegin()
	mock.ExpectCommit()
	tokens := NewAuthService(db, rm, testConfig())
	s := NewOAuthService(db, rm, tokens)

	bridge := &fakeBridge{identity: &OAuthIdentity{
		Provider: "linkedin", ExternalID: "sub-9", Email: "new@x.com", DisplayName: "New User",
	}}

	pair, user, err := s.CompleteLogin(context.Background(), bridge, "cred", roleOf(common.RoleCandidate))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != common.RoleCandidate {
		t.Fatalf("unexpected role: %s", user.Role)
	}
	if user.PasswordHash == "" {
		t.Fatal("placeholder credential must be set")
	}
	if rm.users.createCalls != 1 || rm.profiles.createEmptyCalls != 1 {
		t.Fatalf("expected one user and one profile creation, got %d/%d",
			rm.users.createCalls, rm.profiles.createEmptyCalls)
	}
	if pair.AccessToken == "" {
		t.Fatal("no access token minted")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestOAuth_CreationRaceFallsBackToLogin(t *testing.T) {
	rm := &fakeRepoManager{
		users: &fakeUsersRepo{
			byEmailErr: common.ErrorNotFound,
			createErr:  common.ErrorEmailTaken,
		},
		refresh:  &fakeRefreshRepo{},
		profiles: &fakeProfilesRepo{},
	}
	db, mock := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })
	mock.ExpectBegin()
	mock.ExpectRollback()
	tokens := NewAuthService(db, rm, testConfig())
	s := NewOAuthService(db, rm, tokens)

	rm.users.byEmailLater = &models.User{ID: "u-raced", Email: "new@x.com", Role: common.RoleCandidate}

	bridge := &fakeBridge{identity: &OAuthIdentity{Email: "new@x.com"}}

	_, user, err := s.CompleteLogin(context.Background(), bridge, "cred", roleOf(common.RoleCandidate))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "u-raced" {
		t.Fatalf("expected the raced row, got %+v", user)
	}
}

func TestOAuth_EmailMissing(t *testing.T) {
	rm := &fakeRepoManager{
		users:    &fakeUsersRepo{},
		refresh:  &fakeRefreshRepo{},
		profiles: &fakeProfilesRepo{},
	}
	s := newTestOAuthService(t, rm)

	bridge := &fakeBridge{identity: &OAuthIdentity{Email: "   "}}

	_, _, err := s.CompleteLogin(context.Background(), bridge, "cred", nil)
	if !errors.Is(err, common.ErrEmailMissing) {
		t.Fatalf("expected ErrEmailMissing, got %v", err)
	}
}

func TestOAuth_DeactivatedAccount(t *testing.T) {
	rm := &fakeRepoManager{
		users: &fakeUsersRepo{byEmailOut: &models.User{
			ID: "u-1", Email: "jane@corp.io", Role: common.RoleRecruiter, Deactivated: true,
		}},
		refresh:  &fakeRefreshRepo{},
		profiles: &fakeProfilesRepo{},
	}
	s := newTestOAuthService(t, rm)

	bridge := &fakeBridge{identity: &OAuthIdentity{Email: "jane@corp.io"}}

	_, _, err := s.CompleteLogin(context.Background(), bridge, "cred", nil)
	if !errors.Is(err, common.ErrAccountDeactivated) {
		t.Fatalf("expected ErrAccountDeactivated, got %v", err)
	}
}

func TestOAuth_BridgeErrorPassesThrough(t *testing.T) {
	rm := &fakeRepoManager{
		users:    &fakeUsersRepo{},
		refresh:  &fakeRefreshRepo{},
		profiles: &fakeProfilesRepo{},
	}
	s := newTestOAuthService(t, rm)

	bridge := &fakeBridge{err: common.ErrProviderAuth}

	_, _, err := s.CompleteLogin(context.Background(), bridge, "cred", nil)
	if !errors.Is(err, common.ErrProviderAuth) {
		t.Fatalf("expected ErrProviderAuth, got %v", err)
	}
}
