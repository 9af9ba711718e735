// Package cryptox groups the credential-hashing primitives used by the auth
// core: bcrypt for password credentials and SHA-256 with constant-time
// comparison for short-lived OTP codes.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password credential with bcrypt.
func HashPassword(password []byte) (string, error) {
	h, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword reports whether candidate matches the stored bcrypt hash.
func CheckPassword(hash string, candidate []byte) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), candidate) == nil
}

// HashCode hashes a one-time passcode. Codes are short-lived and
// low-entropy, so a plain digest keyed by nothing is sufficient here;
// the challenge itself expires in seconds.
func HashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// CheckCode compares a candidate code against a stored code hash in
// constant time.
func CheckCode(codeHash string, candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(codeHash), []byte(HashCode(candidate))) == 1
}
