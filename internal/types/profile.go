package types

import "time"

// Profile is the reporting projection of a user. Credentials live in the
// daemon's credential store, never here.
type Profile struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	IsAdmin     bool       `json:"is_admin"`
	CreatedAt   time.Time  `json:"created_at"`
	LastSignIn  *time.Time `json:"last_sign_in,omitempty"`
}

// UsageStats are the admin dashboard aggregates. ActiveAuthors counts
// distinct users who created at least one note in the trailing 30 days.
type UsageStats struct {
	TotalUsers    int `json:"total_users"`
	TotalNotes    int `json:"total_notes"`
	ActiveAuthors int `json:"active_authors"`
}
