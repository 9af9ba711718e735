package models

import (
	"time"

	"github.com/rashid4567/recruitiq/internal/common"
)

// User is a platform account. Email is unique case-insensitively; Role is
// immutable after creation. OAuth-only accounts carry a random password hash
// that can never be presented, so PasswordHash is always non-empty.
type User struct {
	ID               string
	Email            string
	FullName         string
	Role             common.Role
	PasswordHash     string
	ProfileCompleted bool
	Deactivated      bool
	CreatedAt        time.Time
}
