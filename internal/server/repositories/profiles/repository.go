// Package profiles declares the repository contract for role-specific
// profile records.
package profiles

import (
	"context"

	"github.com/rashid4567/recruitiq/internal/common"
	"github.com/rashid4567/recruitiq/internal/server/models"
)

// Repository stores candidate and recruiter profiles. The role argument
// selects the backing table; admin has no profile.
type Repository interface {
	// CreateEmpty inserts the empty profile row created at registration or
	// first OAuth login.
	CreateEmpty(ctx context.Context, userID string, role common.Role) error

	// Get returns the profile row or common.ErrorNotFound.
	Get(ctx context.Context, userID string, role common.Role) (*models.Profile, error)

	// Update overwrites the mutable fields of the profile row.
	Update(ctx context.Context, p *models.Profile, role common.Role) error
}
