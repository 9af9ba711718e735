// Package otpchallenges declares the storage contract for pending OTP
// challenges. At most one challenge exists per email; storage enforces the
// overwrite-on-issue rule and owns nothing else — windows and code checks
// live in the service layer.
package otpchallenges

import (
	"context"

	"github.com/rashid4567/recruitiq/internal/server/models"
)

// Repository persists the single pending challenge per email.
type Repository interface {
	// Put stores the challenge, replacing any existing one for the same
	// email. Implementations may expire the record at challenge.ExpiresAt.
	Put(ctx context.Context, challenge *models.OtpChallenge) error

	// Get returns the pending challenge for email or common.ErrorNotFound.
	Get(ctx context.Context, email string) (*models.OtpChallenge, error)

	// Delete removes the pending challenge for email. Deleting a missing
	// challenge is not an error.
	Delete(ctx context.Context, email string) error
}
