// Package identity issues and verifies the bearer tokens that authenticate
// users and moderators against the moderation API.
//
// Account management is owned by the platform's identity service; this
// package only needs the shared HMAC secret to validate the tokens it mints
// and to mint operator tokens for tooling.
package identity

// Role is the coarse permission level carried in a token.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// CanModerate reports whether r may use the moderator API.
func (r Role) CanModerate() bool {
	return r == RoleModerator || r == RoleAdmin
}
