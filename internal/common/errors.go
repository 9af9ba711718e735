// Package common defines shared constants and sentinel errors used across
// client and server layers of RecruitIQ. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Validation errors.
	ErrorValidation  = errors.New("validation error")
	ErrorEmailTaken  = errors.New("email already registered")
	ErrorBadPassword = errors.New("invalid email/password")

	// Access-token lifecycle.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Refresh-token lifecycle.
	ErrRefreshTokenInvalid = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// OTP challenge outcomes.
	ErrOtpNotFound = errors.New("otp challenge not found")
	ErrOtpExpired  = errors.New("otp expired")
	ErrOtpMismatch = errors.New("otp mismatch")

	// OAuth completion outcomes.
	ErrRoleRequired = errors.New("role required")
	ErrRoleMismatch = errors.New("role mismatch")
	ErrEmailMissing = errors.New("provider returned no email")

	// Provider-side failures. ErrProviderAuth means the credential was
	// rejected and the user must re-authenticate; ErrProviderFlow means the
	// authorization code is spent and the flow must restart.
	ErrProviderAuth = errors.New("provider rejected credential")
	ErrProviderFlow = errors.New("provider flow must be restarted")

	// Account state.
	ErrAccountDeactivated = errors.New("account deactivated")
)
