package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rashid4567/recruitiq/internal/common"
)

// codeToErr maps wire error codes to the shared sentinels. The code field is
// the sole basis for branching; messages are never pattern-matched.
var codeToErr = map[string]error{
	common.CodeTokenExpired:       common.ErrTokenExpired,
	common.CodeTokenInvalid:       common.ErrInvalidToken,
	common.CodeAccountDeactivated: common.ErrAccountDeactivated,

	common.CodeOtpExpired:  common.ErrOtpExpired,
	common.CodeOtpMismatch: common.ErrOtpMismatch,
	common.CodeOtpNotFound: common.ErrOtpNotFound,

	common.CodeRoleRequired:  common.ErrRoleRequired,
	common.CodeRoleMismatch:  common.ErrRoleMismatch,
	common.CodeEmailMissing:  common.ErrEmailMissing,
	common.CodeProviderError: common.ErrProviderAuth,

	common.CodeEmailTaken:         common.ErrorEmailTaken,
	common.CodeInvalidCredentials: common.ErrorBadPassword,
	common.CodeValidation:         common.ErrorValidation,
	common.CodeNotFound:           common.ErrorNotFound,
	common.CodeInternal:           common.ErrorInternal,
}

// decodeError reads an error body once and converts it to a sentinel the
// caller can branch on with errors.Is. The display message rides along in
// the wrap.
func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil || body.Code == "" {
		return fmt.Errorf("unexpected response (status %d): %w", resp.StatusCode, common.ErrorInternal)
	}

	sentinel, ok := codeToErr[body.Code]
	if !ok {
		return fmt.Errorf("%s: %w", body.Message, common.ErrorInternal)
	}
	return fmt.Errorf("%s: %w", body.Message, sentinel)
}
