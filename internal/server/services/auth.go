// This file implements AuthService: password login, registration
// completion, issuing/refreshing JWTs plus server-stored refresh tokens,
// and logout revocation.
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
	"github.com/rashid4567/recruitiq/internal/dbx"
	"github.com/rashid4567/recruitiq/internal/server/auth"
	"github.com/rashid4567/recruitiq/internal/server/config"
	"github.com/rashid4567/recruitiq/internal/server/models"
	"github.com/rashid4567/recruitiq/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService provides authentication-related operations:
//   - Login: verify credentials and mint tokens
//   - CompleteRegistration: create the user described by a verified OTP challenge
//   - RefreshToken: rotate refresh tokens and mint new access tokens
//   - Logout: best-effort refresh-token revocation
type AuthService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Login verifies the email/password pair and, on success, returns a new
// TokenPair and the user. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email string, password []byte) (*TokenPair, *models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorBadPassword
		}
		return nil, nil, common.ErrorInternal
	}
	if user.Deactivated {
		return nil, nil, common.ErrAccountDeactivated
	}
	if !cryptox.CheckPassword(user.PasswordHash, password) {
		return nil, nil, common.ErrorBadPassword
	}
	pair, err := s.generateTokenPair(ctx, user.ID, user.Role, s.db)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// CompleteRegistration creates the user described by a verified OTP
// challenge payload, together with its empty role-appropriate profile row,
// and mints the first TokenPair. The whole creation is transactional.
func (s *AuthService) CompleteRegistration(ctx context.Context, email string, payload *models.RegistrationPayload) (*TokenPair, *models.User, error) {
	var pair *TokenPair
	var user *models.User

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		user, err = s.repomanager.Users(tx).Create(ctx, &models.User{
			Email:        email,
			FullName:     payload.FullName,
			Role:         payload.Role,
			PasswordHash: payload.PasswordHash,
		})
		if err != nil {
			return err
		}
		if err := s.repomanager.Profiles(tx).CreateEmpty(ctx, user.ID, user.Role); err != nil {
			return fmt.Errorf("error creating profile: %w", err)
		}
		pair, err = s.generateTokenPair(ctx, user.ID, user.Role, tx)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorEmailTaken) {
			return nil, nil, common.ErrorEmailTaken
		}
		return nil, nil, err
	}
	return pair, user, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Claims are re-derived from the token's stored
// association; nothing the caller presents is trusted. A token already
// consumed by a racing refresh yields ErrRefreshTokenInvalid with no
// further side effects.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrRefreshTokenInvalid
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, token.UserID)
	if err != nil {
		return nil, common.ErrRefreshTokenInvalid
	}
	if user.Deactivated {
		return nil, common.ErrAccountDeactivated
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)
		found, err := repoTx.Consume(ctx, refreshToken)
		if err != nil {
			return fmt.Errorf("error consuming refresh token: %w", err)
		}
		if !found {
			return common.ErrRefreshTokenInvalid
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, user.ID, user.Role, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes the refresh token. Revocation is best-effort: a missing
// token is not an error, matching the client's fire-and-forget semantics.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken)
}

// VerifyAccessToken parses and verifies an access token, returning its
// claims. Used by the HTTP middleware.
func (s *AuthService) VerifyAccessToken(tokenString string) (*auth.Claims, error) {
	return auth.ParseToken(tokenString, s.jwtSecret)
}

// --- helpers below ---

func (s *AuthService) generateAccessToken(userID string, role common.Role) (string, error) {
	return auth.GenerateToken(userID, role, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *AuthService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *AuthService) generateTokenPair(ctx context.Context, userID string, role common.Role, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(userID, role)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
