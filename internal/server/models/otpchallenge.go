package models

import (
	"time"

	"github.com/rashid4567/recruitiq/internal/common"
)

// RegistrationPayload is everything needed to create the User once the OTP
// gate is passed: verification alone completes the registration.
type RegistrationPayload struct {
	FullName     string      `json:"full_name"`
	PasswordHash string      `json:"password_hash"`
	Role         common.Role `json:"role"`
}

// OtpChallenge is the single pending challenge for an email address.
// Issuing a new one replaces it; it is destroyed on successful verification
// or expiry. The code is stored hashed.
type OtpChallenge struct {
	Email     string              `json:"email"`
	Role      common.Role         `json:"role"`
	CodeHash  string              `json:"code_hash"`
	IssuedAt  time.Time           `json:"issued_at"`
	ExpiresAt time.Time           `json:"expires_at"`
	Payload   RegistrationPayload `json:"payload"`
}
