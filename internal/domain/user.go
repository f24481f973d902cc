package domain

import (
	"regexp"
	"time"
)

// usernameRe matches the allowed username alphabet: word characters plus . @ + -.
var usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)

// MaxUsernameLength is the maximum allowed username length.
const MaxUsernameLength = 150

// User represents a registered account in the system.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidUsernameFormat reports whether the username matches the allowed
// character classes and length. The reserved-word check is policy and lives
// in configuration, not here.
func ValidUsernameFormat(username string) bool {
	if username == "" || len(username) > MaxUsernameLength {
		return false
	}
	return usernameRe.MatchString(username)
}

// FullName returns the user's full name, composed from first and last names.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Follow represents a follower → author edge in the follow graph.
// The pair is unique; a user never follows themselves.
type Follow struct {
	FollowerID string    `json:"follower_id"`
	AuthorID   string    `json:"author_id"`
	CreatedAt  time.Time `json:"created_at"`
}
