package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rashid4567/recruitiq/internal/common"
)

// Context keys set by the auth middleware.
const (
	ctxUserID = "userId"
	ctxRole   = "role"
)

// requireAuth parses the bearer token, verifies it, and rejects sessions
// whose account was deactivated after the token was minted.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeader)
		if !strings.HasPrefix(header, common.BearerPrefix) {
			abortWithError(c, common.ErrInvalidToken)
			return
		}

		claims, err := s.auth.VerifyAccessToken(strings.TrimPrefix(header, common.BearerPrefix))
		if err != nil {
			abortWithError(c, err)
			return
		}

		user, err := s.profiles.GetUser(c.Request.Context(), claims.UserID)
		if err != nil {
			abortWithError(c, common.ErrInvalidToken)
			return
		}
		if user.Deactivated {
			abortWithError(c, common.ErrAccountDeactivated)
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// requireRole guards a route group to the given roles. Runs after
// requireAuth.
func requireRole(roles ...common.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(ctxRole)
		if !ok {
			abortWithError(c, common.ErrInvalidToken)
			return
		}
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, APIError{common.CodeRoleMismatch, "insufficient role"})
	}
}

func sessionUserID(c *gin.Context) string {
	v, _ := c.Get(ctxUserID)
	id, _ := v.(string)
	return id
}

func sessionRole(c *gin.Context) common.Role {
	v, _ := c.Get(ctxRole)
	role, _ := v.(common.Role)
	return role
}
