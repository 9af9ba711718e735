// Package users declares the server-side repository contract for platform
// accounts.
package users

import (
	"context"

	"github.com/rashid4567/recruitiq/internal/server/models"
)

// Repository defines persistence operations for users. Lookups by email are
// case-insensitive.
type Repository interface {
	// Create inserts a new user and returns it with the generated fields
	// populated. A duplicate email yields common.ErrorEmailTaken.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns the user with the given email, matched
	// case-insensitively, or common.ErrorNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID returns the user with the given id or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// SetProfileCompleted updates the derived profile_completed flag.
	SetProfileCompleted(ctx context.Context, id string, completed bool) error

	// List returns all users ordered by creation time. Admin use only.
	List(ctx context.Context) ([]*models.User, error)
}
