// This file implements ProfileService: reading and completing the
// role-specific profile record, keeping the user's derived
// profile_completed flag in step.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rashid4567/recruitiq/internal/common"
	"github.com/rashid4567/recruitiq/internal/dbx"
	"github.com/rashid4567/recruitiq/internal/server/models"
	"github.com/rashid4567/recruitiq/internal/server/repositories/repomanager"
)

// ProfileService reads and updates candidate/recruiter profiles.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewProfileService constructs a ProfileService.
func NewProfileService(db *sql.DB, m repomanager.RepositoryManager) *ProfileService {
	return &ProfileService{db: db, repomanager: m}
}

// Get returns the profile row for the user. Admins have no profile.
func (s *ProfileService) Get(ctx context.Context, userID string, role common.Role) (*models.Profile, error) {
	if role == common.RoleAdmin {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Profiles(s.db).Get(ctx, userID, role)
}

// Complete overwrites the profile's mutable fields and flips the user's
// profile_completed flag, atomically. The flag never flips back.
func (s *ProfileService) Complete(ctx context.Context, userID string, role common.Role, p *models.Profile) error {
	if role == common.RoleAdmin {
		return common.ErrorValidation
	}
	p.UserID = userID
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Profiles(tx).Update(ctx, p, role); err != nil {
			return fmt.Errorf("error updating profile: %w", err)
		}
		return s.repomanager.Users(tx).SetProfileCompleted(ctx, userID, true)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return err
	}
	return nil
}

// ListUsers returns every platform account. Admin sessions only; the HTTP
// layer enforces the role guard.
func (s *ProfileService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repomanager.Users(s.db).List(ctx)
}

// GetUser returns the account record backing a session.
func (s *ProfileService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, userID)
}
