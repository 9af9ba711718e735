package models

import "time"

// Profile is the role-specific profile record. An empty row is created at
// registration or first OAuth login; filling it in flips the user's
// profile_completed flag.
type Profile struct {
	UserID    string
	Headline  string
	Location  string
	About     string
	ResumeKey string // S3 object key, candidates only
	Company   string // recruiters only
	UpdatedAt time.Time
}
