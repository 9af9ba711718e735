// This file implements the OAuth bridges. Two independent adapters — Google
// (verifies a signed ID-token credential directly) and LinkedIn (exchanges
// an authorization code, then fetches the userinfo profile) — converge on a
// single find-or-create completion keyed on email.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/linkedin"
	"google.golang.org/api/idtoken"

	"github.com/rashid4567/recruitiq/internal/common"
	"github.com/rashid4567/recruitiq/internal/cryptox"
	"github.com/rashid4567/recruitiq/internal/dbx"
	"github.com/rashid4567/recruitiq/internal/server/config"
	"github.com/rashid4567/recruitiq/internal/server/models"
	"github.com/rashid4567/recruitiq/internal/server/repositories/repomanager"
)

// OAuthIdentity is the normalized per-attempt identity a bridge resolves a
// provider credential into. Never persisted standalone.
type OAuthIdentity struct {
	Provider    string
	ExternalID  string
	Email       string
	DisplayName string
}

// IdentityResolver redeems one provider-specific credential for a normalized
// identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, credential string) (*OAuthIdentity, error)
}

// --- Google bridge ---

// idtokenValidate is a seam for testing idtoken.Validate.
var idtokenValidate = idtoken.Validate

// GoogleBridge verifies a Google-signed ID token against our client ID.
type GoogleBridge struct {
	clientID string
}

// NewGoogleBridge constructs a bridge for the configured OAuth client.
func NewGoogleBridge(cfg *config.Config) *GoogleBridge {
	return &GoogleBridge{clientID: cfg.GoogleClientID}
}

// Resolve validates the signed credential and extracts the profile claims.
// A credential Google rejects means the user must re-authenticate.
func (b *GoogleBridge) Resolve(ctx context.Context, credential string) (*OAuthIdentity, error) {
	payload, err := idtokenValidate(ctx, credential, b.clientID)
	if err != nil {
		return nil, common.ErrProviderAuth
	}
	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	sub, _ := payload.Claims["sub"].(string)

	return &OAuthIdentity{
		Provider:    "google",
		ExternalID:  sub,
		Email:       email,
		DisplayName: name,
	}, nil
}

// --- LinkedIn bridge ---

// linkedInUserinfoURL is the OpenID Connect userinfo endpoint; a seam for
// tests.
var linkedInUserinfoURL = "https://api.linkedin.com/v2/userinfo"

// LinkedInBridge exchanges an authorization code for a provider access token
// and fetches the normalized profile with it.
type LinkedInBridge struct {
	oauth *oauth2.Config
}

// NewLinkedInBridge constructs a bridge from the configured OAuth2 client.
func NewLinkedInBridge(cfg *config.Config) *LinkedInBridge {
	return &LinkedInBridge{
		oauth: &oauth2.Config{
			ClientID:     cfg.LinkedInClientID,
			ClientSecret: cfg.LinkedInClientSecret,
			RedirectURL:  cfg.LinkedInRedirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     linkedin.Endpoint,
		},
	}
}

// AuthCodeURL returns the provider authorization URL for the given state.
func (b *LinkedInBridge) AuthCodeURL(state string) string {
	return b.oauth.AuthCodeURL(state)
}

// Resolve exchanges the single-use authorization code and fetches the
// userinfo profile. A 401 from the provider maps to re-authenticate; a 400
// means the code is spent and the flow must restart.
func (b *LinkedInBridge) Resolve(ctx context.Context, code string) (*OAuthIdentity, error) {
	token, err := b.oauth.Exchange(ctx, code)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			if rerr.Response != nil && rerr.Response.StatusCode == http.StatusUnauthorized {
				return nil, common.ErrProviderAuth
			}
			return nil, common.ErrProviderFlow
		}
		return nil, fmt.Errorf("linkedin exchange: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, linkedInUserinfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("linkedin userinfo request: %w", err)
	}
	resp, err := b.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("linkedin userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, common.ErrProviderAuth
	}
	if resp.StatusCode != http.StatusOK {
		return nil, common.ErrProviderFlow
	}

	var info struct {
		Sub   string `json:"sub"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("linkedin userinfo decode: %w", err)
	}

	return &OAuthIdentity{
		Provider:    "linkedin",
		ExternalID:  info.Sub,
		Email:       info.Email,
		DisplayName: info.Name,
	}, nil
}

// --- shared completion ---

// OAuthService resolves provider identities into platform users and sessions.
type OAuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *AuthService
}

// NewOAuthService constructs the shared completion service.
func NewOAuthService(db *sql.DB, m repomanager.RepositoryManager, tokens *AuthService) *OAuthService {
	return &OAuthService{db: db, repomanager: m, tokens: tokens}
}

// CompleteLogin redeems the credential through the given bridge and resolves
// it into a platform user and a fresh TokenPair.
//
// Step order: resolve the credential; look up the user by email; if absent,
// an intendedRole is required (ErrRoleRequired otherwise) and the user is
// created with a random never-displayed credential placeholder plus an
// empty role-appropriate profile; if present, a supplied intendedRole must
// match the stored role (ErrRoleMismatch otherwise) — one email is
// permanently bound to one role.
func (s *OAuthService) CompleteLogin(ctx context.Context, bridge IdentityResolver, credential string, intendedRole *common.Role) (*TokenPair, *models.User, error) {
	identity, err := bridge.Resolve(ctx, credential)
	if err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(identity.Email) == "" {
		return nil, nil, common.ErrEmailMissing
	}
	email := strings.ToLower(identity.Email)

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	switch {
	case err == nil:
		if user.Deactivated {
			return nil, nil, common.ErrAccountDeactivated
		}
		if intendedRole != nil && *intendedRole != user.Role {
			return nil, nil, common.ErrRoleMismatch
		}
	case errors.Is(err, common.ErrorNotFound):
		if intendedRole == nil {
			return nil, nil, common.ErrRoleRequired
		}
		if !common.RegistrableRole(string(*intendedRole)) {
			return nil, nil, common.ErrorValidation
		}
		user, err = s.createFirstTimeUser(ctx, email, identity.DisplayName, *intendedRole)
		if err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, common.ErrorInternal
	}

	pair, err := s.tokens.generateTokenPair(ctx, user.ID, user.Role, s.db)
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// createFirstTimeUser provisions the account for a first OAuth login: a
// random credential placeholder (password login stays impossible) and an
// empty profile row, atomically.
func (s *OAuthService) createFirstTimeUser(ctx context.Context, email, fullName string, role common.Role) (*models.User, error) {
	placeholder, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	hash, err := cryptox.HashPassword([]byte(placeholder))
	if err != nil {
		return nil, common.ErrorInternal
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var txErr error
		user, txErr = s.repomanager.Users(tx).Create(ctx, &models.User{
			Email:        email,
			FullName:     fullName,
			Role:         role,
			PasswordHash: hash,
		})
		if txErr != nil {
			return txErr
		}
		return s.repomanager.Profiles(tx).CreateEmpty(ctx, user.ID, role)
	})
	if err != nil {
		// Lost a creation race with an identical credential retry: the row
		// exists now, continue as an existing-user login.
		if errors.Is(err, common.ErrorEmailTaken) {
			return s.repomanager.Users(s.db).GetByEmail(ctx, email)
		}
		return nil, err
	}
	return user, nil
}
