package entity

import "time"

// DefaultProfilePhoto is the sentinel photo assigned at signup.
const DefaultProfilePhoto = "default_dp.png"

// User is the aggregate root stored as the per-user metadata document.
// Username is the storage key, so it never appears in the document itself.
type User struct {
	Username      string             `json:"-"`
	PasswordHash  string             `json:"password_hash"`
	Points        int                `json:"points"`
	ProfilePhoto  string             `json:"profile_photo"`
	SessionTokens map[string]Session `json:"session_tokens"`
}

// Session is one device login.
type Session struct {
	CreatedAt time.Time `json:"creation_time"`
}

// Live reports whether the session is still inside the expiration window at now.
func (s Session) Live(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.CreatedAt) < ttl
}

// Photo returns the profile photo, substituting the default for empty values.
func (u *User) Photo() string {
	if u.ProfilePhoto == "" {
		return DefaultProfilePhoto
	}
	return u.ProfilePhoto
}
