package api

import (
	"net/url"

	"github.com/rashid4567/recruitiq/internal/common"
)

// CallbackResult is the validated outcome of an OAuth browser callback.
type CallbackResult struct {
	User      User
	ErrorCode string
}

// ParseCallback validates the query parameters the LinkedIn callback route
// carries back. Nothing in the query is trusted until it passes: success
// must be "true", role must be one of the two registrable values, and token
// and userId must be non-empty. On success the session is established.
func (c *Client) ParseCallback(query url.Values) (*CallbackResult, error) {
	if errCode := query.Get("error"); errCode != "" {
		return &CallbackResult{ErrorCode: errCode}, nil
	}

	token := query.Get("accessToken")
	role := query.Get("role")
	userID := query.Get("userId")

	if query.Get("success") != "true" || token == "" || userID == "" || !common.RegistrableRole(role) {
		return nil, common.ErrorValidation
	}

	user := User{
		ID:               userID,
		Role:             common.Role(role),
		ProfileCompleted: query.Get("profileCompleted") == "true",
	}
	c.storeSession(token, user)
	return &CallbackResult{User: user}, nil
}

// SessionUser reconstructs the user view persisted in the session.
func (c *Client) SessionUser() (User, bool) {
	s := c.sessions.Get()
	if !s.LoggedIn() {
		return User{}, false
	}
	return User{ID: s.UserID, Role: s.Role, ProfileCompleted: s.ProfileCompleted}, true
}
