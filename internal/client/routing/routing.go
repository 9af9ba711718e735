// Package routing maps an authenticated identity to its landing route.
package routing

import "github.com/rashid4567/recruitiq/internal/common"

// Known routes. The login route doubles as the fallback for anything
// unrecognized, so a corrupted session can never land on a privileged page.
const (
	LoginPath            = "/login"
	CandidateHomePath    = "/candidate/home"
	CandidateOnboardPath = "/candidate/onboarding"
	RecruiterHomePath    = "/recruiter/home"
	RecruiterOnboardPath = "/recruiter/onboarding"
	AdminDashboardPath   = "/admin/dashboard"
)

// Route returns the landing path for a role and profile state. Pure: same
// inputs, same path, no session reads.
func Route(role common.Role, profileCompleted bool) string {
	switch role {
	case common.RoleCandidate:
		if !profileCompleted {
			return CandidateOnboardPath
		}
		return CandidateHomePath
	case common.RoleRecruiter:
		if !profileCompleted {
			return RecruiterOnboardPath
		}
		return RecruiterHomePath
	case common.RoleAdmin:
		return AdminDashboardPath
	default:
		return LoginPath
	}
}
