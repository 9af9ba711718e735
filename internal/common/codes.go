package common

// API error codes carried in the response body's "code" field. The code is
// the sole basis for client-side branching; "message" is display-only.
const (
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeTokenInvalid       = "TOKEN_INVALID"
	CodeAccountDeactivated = "ACCOUNT_DEACTIVATED"

	CodeOtpExpired  = "OTP_EXPIRED"
	CodeOtpMismatch = "OTP_MISMATCH"
	CodeOtpNotFound = "OTP_NOT_FOUND"

	CodeRoleRequired  = "ROLE_REQUIRED"
	CodeRoleMismatch  = "ROLE_MISMATCH"
	CodeEmailMissing  = "EMAIL_MISSING"
	CodeProviderError = "PROVIDER_ERROR"

	CodeEmailTaken         = "EMAIL_TAKEN"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeInternal           = "INTERNAL_ERROR"
)
