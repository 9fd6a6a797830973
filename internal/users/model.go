// Package users reads user profiles owned by the identity collaborator.
// The moderation core never writes profiles; it only resolves ids to display
// names for moderator tooling and report search.
package users

import "time"

// UnknownUser is the placeholder shown when a profile cannot be resolved.
const UnknownUser = "unknown user"

// Profile is the public identity of a user.
type Profile struct {
	ID          string    `json:"id"           db:"id"`
	Username    string    `json:"username"     db:"username"`
	DisplayName string    `json:"display_name" db:"display_name"`
	CreatedAt   time.Time `json:"created_at"   db:"created_at"`
}

// Name returns the best human-readable label for the profile.
func (p *Profile) Name() string {
	if p == nil {
		return UnknownUser
	}
	if p.DisplayName != "" {
		return p.DisplayName
	}
	if p.Username != "" {
		return p.Username
	}
	return UnknownUser
}
