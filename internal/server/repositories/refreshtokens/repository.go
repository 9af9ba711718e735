// Package refreshtokens declares the server-side repository contract for
// managing refresh tokens in persistent storage.
package refreshtokens

import (
	"context"
	"time"

	"github.com/rashid4567/recruitiq/internal/server/models"
)

// Repository defines operations for issuing, consuming, and revoking refresh
// tokens.
type Repository interface {
	// Create stores a new refresh token for userID with an expiry of now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find looks up a refresh token by its opaque token string and returns its
	// metadata. Implementations return common.ErrorNotFound when absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Consume deletes a refresh token and reports whether it still existed.
	// A false result means a racing request already rotated it.
	Consume(ctx context.Context, token string) (bool, error)

	// Delete removes a refresh token by its token string. Deleting a
	// non-existent token is not an error (logout is best-effort).
	Delete(ctx context.Context, token string) error
}
