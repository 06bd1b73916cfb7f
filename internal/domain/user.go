package domain

import "time"

// Role is a flat permission label. There is no hierarchy between roles:
// a route that wants both ADMIN and EDITOR must list both.
type Role string

const (
	RoleUser   Role = "user"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

// ParseRole normalizes a stored role string; unknown values fall back to RoleUser.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleEditor:
		return RoleEditor
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleUser
	}
}

// OneOf reports whether r is in required. Empty required allows any role.
func (r Role) OneOf(required ...Role) bool {
	if len(required) == 0 {
		return true
	}
	for _, want := range required {
		if r == want {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }

// Identity is the minimal authenticated principal attached to a request.
// It never carries credential material.
type Identity struct {
	ID   int64
	Role Role
}

// User is an account row. HashedRefreshToken is the single refresh-token
// slot: nil means no active session.
type User struct {
	ID                 int64
	FirstName          string
	LastName           string
	Email              string
	AvatarURL          string
	PasswordHash       string
	Role               Role
	HashedRefreshToken *string
	CreatedAt          time.Time
}

// Identity projects the authorization-relevant fields.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Role: u.Role}
}
