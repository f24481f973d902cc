package domain

import "time"

// Session represents a refresh-token session for a signed-in user.
// The refresh token itself is never stored, only its SHA-256 hash.
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"-"`
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
	LastSeenAt       time.Time `json:"last_seen_at"`
	ClientName       string    `json:"client_name,omitempty"`
	IPAddress        string    `json:"ip_address,omitempty"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
