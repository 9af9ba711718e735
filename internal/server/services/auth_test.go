package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rashid4567/recruitiq/internal/common"
	"github.com/rashid4567/recruitiq/internal/cryptox"
	"github.com/rashid4567/recruitiq/internal/dbx"
	"github.com/rashid4567/recruitiq/internal/server/config"
	"github.com/rashid4567/recruitiq/internal/server/models"
	profilesrepo "github.com/rashid4567/recruitiq/internal/server/repositories/profiles"
	refreshtokensrepo "github.com/rashid4567/recruitiq/internal/server/repositories/refreshtokens"
	usersrepo "github.com/rashid4567/recruitiq/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	byEmailOut *models.User
	byEmailErr error

	// byEmailLater, when set, is returned by every GetByEmail call after the
	// first. Models a row that appeared between lookup and create.
	byEmailLater *models.User
	byEmailCalls int

	byIDOut *models.User
	byIDErr error

	listOut []*models.User

	createCalls int
	completed   map[string]bool
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	u.ID = "u-created"
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.byEmailCalls++
	if f.byEmailLater != nil && f.byEmailCalls > 1 {
		return f.byEmailLater, nil
	}
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	return f.byEmailOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byIDOut, nil
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]*models.User, error) {
	return f.listOut, nil
}

func (f *fakeUsersRepo) SetProfileCompleted(ctx context.Context, id string, completed bool) error {
	if f.completed == nil {
		f.completed = map[string]bool{}
	}
	f.completed[id] = completed
	return nil
}

type fakeRefreshRepo struct {
	findOut *models.RefreshToken
	findErr error

	consumeFound bool
	consumeErr   error

	createErr   error
	createCalls int

	deleted []string
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	f.createCalls++
	return f.createErr
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Consume(ctx context.Context, token string) (bool, error) {
	return f.consumeFound, f.consumeErr
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	f.deleted = append(f.deleted, token)
	return nil
}

type fakeProfilesRepo struct {
	createEmptyErr   error
	createEmptyCalls int
}

func (f *fakeProfilesRepo) CreateEmpty(ctx context.Context, userID string, role common.Role) error {
	f.createEmptyCalls++
	return f.createEmptyErr
}

func (f *fakeProfilesRepo) Get(ctx context.Context, userID string, role common.Role) (*models.Profile, error) {
	return &models.Profile{UserID: userID}, nil
}

func (f *fakeProfilesRepo) Update(ctx context.Context, p *models.Profile, role common.Role) error {
	return nil
}

type fakeRepoManager struct {
	users    *fakeUsersRepo
	refresh  *fakeRefreshRepo
	profiles *fakeProfilesRepo
}

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository {
	return m.users
}

func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository {
	return m.refresh
}

func (m *fakeRepoManager) Profiles(db dbx.DBTX) profilesrepo.Repository {
	return m.profiles
}

func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

func mustHash(t *testing.T, pw string) string {
	t.Helper()
	h, err := cryptox.HashPassword([]byte(pw))
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return h
}

// --- tests ---

func TestLogin_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		users: &fakeUsersRepo{byEmailOut: &models.User{
			ID: "u-1", Email: "jane@corp.io", Role: common.RoleRecruiter,
			PasswordHash: mustHash(t, "pw"),
		}},
		refresh:  &fakeRefreshRepo{},
		profiles: &fakeProfilesRepo{},
	}
	s := NewAuthService(db, rm, testConfig())

	pair, user, err := s.Login(context.Background(), "Jane@Corp.IO", []byte("pw"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "u-1" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if pair.RefreshToken == "" {
		t.Fatal("no refresh token minted")
	}

	claims, err := s.VerifyAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("minted token does not verify: %v", err)
	}
	if claims.UserID != "u-1" || claims.Role != common.RoleRecruiter {
		t.Fatalf("claims do not match identity: %+v", claims)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		users: &fakeUsersRepo{byEmailOut: &models.User{
			ID: "u-1", PasswordHash: mustHash(t, "pw"), Role: common.RoleCandidate,
		}},
		refresh:  &fakeRefreshRepo{},
		profiles: &fakeProfilesRepo{},
	}
	s := NewAuthService(db, rm, testConfig())

	_, _, err := s.Login(context.Background(), "jane@corp.io", []byte("nope"))
	if !errors.Is(err, common.ErrorBadPassword) {
		t.Fatalf("expected ErrorBadPassword, got %v", err)
	}
	if rm.refresh.createCalls != 0 {
		t.Fatal("no token must be issued on failed login")
	}
}

func TestLogin_UnknownEmailIndistinguishable(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		users:    &fakeUsersRepo{byEmailErr: common.ErrorNotFound},
		refresh:  &fakeRefreshRepo{},
		profiles: &fakeProfilesRepo{},
	}
	s := NewAuthService(db, rm, testConfig())

	_, _, err := s.Login(context.Background(), "ghost@corp.io", []byte("pw"))
	if !errors.Is(err, common.ErrorBadPassword) {
		t.Fatalf("expected ErrorBadPassword, got %v", err)
	}
}

func TestLogin_Deactivated(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		users: &fakeUsersRepo{byEmailOut: &models.User{
			ID: "u-1", PasswordHash: mustHash(t, "pw"), Deactivated: true,
		}},
		refresh:  &fakeRefreshRepo{},
		profiles: &fakeProfilesRepo{},
	}
	s := NewAuthService(db, rm, testConfig())

	_, _, err := s.Login(context.Background(), "jane@corp.io", []byte("pw"))
	if !errors.Is(err, common.ErrAccountDeactivated) {
		t.Fatalf("expected ErrAccountDeactivated, got %v", err)
	}
}

func TestRefreshToken_RotatesAndRederivesClaims(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		users: &fakeUsersRepo{byIDOut: &models.User{ID: "u-1", Role: common.RoleCandidate}},
		refresh: &fakeRefreshRepo{
			findOut:      &models.RefreshToken{UserID: "u-1", Token: "old", Expires: time.Now().Add(time.Hour)},
			consumeFound: true,
		},
		profiles: &fakeProfilesRepo{},
	}
	s := NewAuthService(db, rm, testConfig())

	mock.ExpectBegin()
	mock.ExpectCommit()

	pair, err := s.RefreshToken(context.Background(), "old")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := s.VerifyAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("minted token does not verify: %v", err)
	}
	if claims.UserID != "u-1" || claims.Role != common.RoleCandidate {
		t.Fatalf("claims must come from the stored association, got %+v", claims)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRefreshToken_Expired(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		users: &fakeUsersRepo{byIDOut: &models.User{ID: "u-1"}},
		refresh: &fakeRefreshRepo{
			findOut: &models.RefreshToken{UserID: "u-1", Expires: time.Now().Add(-time.Minute)},
		},
		profiles: &fakeProfilesRepo{},
	}
	s := NewAuthService(db, rm, testConfig())

	_, err := s.RefreshToken(context.Background(), "old")
	if !errors.Is(err, common.ErrRefreshTokenExpired) {
		t.Fatalf("expected ErrRefreshTokenExpired, got %v", err)
	}
}

func TestRefreshToken_AlreadyConsumedByRacingRequest(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		users: &fakeUsersRepo{byIDOut: &models.User{ID: "u-1", Role: common.RoleCandidate}},
		refresh: &fakeRefreshRepo{
			findOut:      &models.RefreshToken{UserID: "u-1", Expires: time.Now().Add(time.Hour)},
			consumeFound: false,
		},
		profiles: &fakeProfilesRepo{},
	}
	s := NewAuthService(db, rm, testConfig())

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := s.RefreshToken(context.Background(), "old")
	if !errors.Is(err, common.ErrRefreshTokenInvalid) {
		t.Fatalf("expected ErrRefreshTokenInvalid, got %v", err)
	}
}

func TestRefreshToken_Unknown(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		users:    &fakeUsersRepo{},
		refresh:  &fakeRefreshRepo{findErr: common.ErrorNotFound},
		profiles: &fakeProfilesRepo{},
	}
	s := NewAuthService(db, rm, testConfig())

	_, err := s.RefreshToken(context.Background(), "forged")
	if !errors.Is(err, common.ErrRefreshTokenInvalid) {
		t.Fatalf("expected ErrRefreshTokenInvalid, got %v", err)
	}
}

func TestCompleteRegistration_CreatesUserProfileAndTokens(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		users:    &fakeUsersRepo{},
		refresh:  &fakeRefreshRepo{},
		profiles: &fakeProfilesRepo{},
	}
	s := NewAuthService(db, rm, testConfig())

	mock.ExpectBegin()
	mock.ExpectCommit()

	pair, user, err := s.CompleteRegistration(context.Background(), "new@x.com", &models.RegistrationPayload{
		FullName:     "New User",
		PasswordHash: "hash",
		Role:         common.RoleCandidate,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != common.RoleCandidate {
		t.Fatalf("unexpected role: %s", user.Role)
	}
	if rm.profiles.createEmptyCalls != 1 {
		t.Fatal("empty profile row must be created")
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("token pair incomplete")
	}
}

func TestCompleteRegistration_EmailTaken(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		users:    &fakeUsersRepo{createErr: common.ErrorEmailTaken},
		refresh:  &fakeRefreshRepo{},
		profiles: &fakeProfilesRepo{},
	}
	s := NewAuthService(db, rm, testConfig())

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, _, err := s.CompleteRegistration(context.Background(), "dup@x.com", &models.RegistrationPayload{Role: common.RoleCandidate})
	if !errors.Is(err, common.ErrorEmailTaken) {
		t.Fatalf("expected ErrorEmailTaken, got %v", err)
	}
}

func TestLogout_BestEffort(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		users:    &fakeUsersRepo{},
		refresh:  &fakeRefreshRepo{},
		profiles: &fakeProfilesRepo{},
	}
	s := NewAuthService(db, rm, testConfig())

	if err := s.Logout(context.Background(), ""); err != nil {
		t.Fatalf("empty token must be a no-op, got %v", err)
	}
	if err := s.Logout(context.Background(), "tok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rm.refresh.deleted) != 1 || rm.refresh.deleted[0] != "tok" {
		t.Fatalf("expected revocation of tok, got %v", rm.refresh.deleted)
	}
}
