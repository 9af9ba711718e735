// Package auth implements stateless access tokens: short-lived JWTs carrying
// the {userId, role} claim set, verified by signature and expiry only.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rashid4567/recruitiq/internal/common"
)

// Claims is the access-token claim set: registered claims plus the platform
// identity. Role travels inside the token so ordinary requests need no
// user lookup.
type Claims struct {
	jwt.RegisteredClaims
	UserID string      `json:"uid"`
	Role   common.Role `json:"role"`
}

// GenerateToken mints an HS256 access token for the given identity.
func GenerateToken(userID string, role common.Role, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
		Role:   role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies signature and expiry and returns the embedded claims.
// An expired token yields common.ErrTokenExpired; any other defect yields
// common.ErrInvalidToken, so callers can answer with distinct codes.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" || !common.ValidRole(string(claims.Role)) {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
