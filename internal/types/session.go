package types

import "time"

type AuthEventType string

const (
	AuthEventSignedIn       AuthEventType = "signed_in"
	AuthEventSignedOut      AuthEventType = "signed_out"
	AuthEventTokenRefreshed AuthEventType = "token_refreshed"
)

// Session is the authenticated identity as observed by the client. Its
// lifecycle is owned by the daemon auth service; the client only reacts to
// transitions.
type Session struct {
	UserID     string     `json:"user_id"`
	Email      string     `json:"email"`
	IsAdmin    bool       `json:"is_admin"`
	ExpiresAt  time.Time  `json:"expires_at"`
	LastSignIn *time.Time `json:"last_sign_in,omitempty"`
}

type AuthEvent struct {
	Type    AuthEventType `json:"type"`
	Session *Session      `json:"session,omitempty"`
}
