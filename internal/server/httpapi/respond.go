// Package httpapi exposes the public HTTP endpoint: gin router, bearer
// middleware, and JSON handlers. Every error leaves as {code, message};
// the code field is the contract clients branch on, the message is for
// display only.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rashid4567/recruitiq/internal/common"
)

// APIError is the JSON error body.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// toAPIError maps a service error to an HTTP status and wire code.
func toAPIError(err error) (int, APIError) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, APIError{common.CodeValidation, "invalid request"}
	case errors.Is(err, common.ErrorEmailTaken):
		return http.StatusConflict, APIError{common.CodeEmailTaken, "email is already registered"}
	case errors.Is(err, common.ErrorBadPassword):
		return http.StatusUnauthorized, APIError{common.CodeInvalidCredentials, "invalid email or password"}
	case errors.Is(err, common.ErrAccountDeactivated):
		return http.StatusForbidden, APIError{common.CodeAccountDeactivated, "account is deactivated"}
	case errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, APIError{common.CodeTokenExpired, "access token expired"}
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, APIError{common.CodeTokenInvalid, "access token invalid"}
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return http.StatusUnauthorized, APIError{common.CodeTokenExpired, "refresh token expired"}
	case errors.Is(err, common.ErrRefreshTokenInvalid):
		return http.StatusUnauthorized, APIError{common.CodeTokenInvalid, "refresh token invalid"}
	case errors.Is(err, common.ErrOtpExpired):
		return http.StatusBadRequest, APIError{common.CodeOtpExpired, "verification code expired, request a new one"}
	case errors.Is(err, common.ErrOtpMismatch):
		return http.StatusBadRequest, APIError{common.CodeOtpMismatch, "verification code does not match"}
	case errors.Is(err, common.ErrOtpNotFound):
		return http.StatusNotFound, APIError{common.CodeOtpNotFound, "no pending verification for this email"}
	case errors.Is(err, common.ErrRoleRequired):
		return http.StatusBadRequest, APIError{common.CodeRoleRequired, "a role is required for first-time sign-in"}
	case errors.Is(err, common.ErrRoleMismatch):
		return http.StatusConflict, APIError{common.CodeRoleMismatch, "email is registered under a different role"}
	case errors.Is(err, common.ErrEmailMissing):
		return http.StatusBadRequest, APIError{common.CodeEmailMissing, "provider returned no email"}
	case errors.Is(err, common.ErrProviderAuth):
		return http.StatusUnauthorized, APIError{common.CodeProviderError, "provider rejected the credential, sign in again"}
	case errors.Is(err, common.ErrProviderFlow):
		return http.StatusBadRequest, APIError{common.CodeProviderError, "sign-in flow interrupted, start over"}
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, APIError{common.CodeNotFound, "not found"}
	default:
		return http.StatusInternalServerError, APIError{common.CodeInternal, "internal error"}
	}
}

func abortWithError(c *gin.Context, err error) {
	status, body := toAPIError(err)
	c.AbortWithStatusJSON(status, body)
}
