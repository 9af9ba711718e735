package common

// Role is a platform role. It is assigned once, at account creation, and is
// immutable afterwards: a later login under a different role is rejected.
type Role string

const (
	RoleCandidate Role = "candidate"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleCandidate, RoleRecruiter, RoleAdmin:
		return true
	}
	return false
}

// RegistrableRole reports whether s is a role a user may sign up with.
// Admin accounts are seeded out-of-band and have no registration path.
func RegistrableRole(s string) bool {
	return Role(s) == RoleCandidate || Role(s) == RoleRecruiter
}
