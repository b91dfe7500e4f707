package models

// UserRole represents the roles the backend assigns to accounts.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleLecturer UserRole = "lecturer"
	RoleStudent  UserRole = "student"
)

// Roles lists every known role in display order.
var Roles = []UserRole{RoleAdmin, RoleLecturer, RoleStudent}

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// User is the authenticated identity returned by the auth endpoints.
type User struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
	Role     UserRole `json:"role"`
}
