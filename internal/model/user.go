package model

import "time"

// Roles a user may hold.  A username registered as HOST lists stays;
// a GUEST books them.
const (
	RoleHost  = "HOST"
	RoleGuest = "GUEST"
)

// User is an account stored in the users table.  The username is the
// identity string handed to the booking core.
type User struct {
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleHost || role == RoleGuest
}
