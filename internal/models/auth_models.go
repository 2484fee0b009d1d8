package models

// UserRole gates which areas of the dashboard a staff member may change.
type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleAttendant UserRole = "ATTENDANT"
	RoleSales     UserRole = "SALES"
	RoleMarketing UserRole = "MARKETING"
	RoleFinance   UserRole = "FINANCE"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleAttendant, RoleSales, RoleMarketing, RoleFinance:
		return true
	}
	return false
}

// User is a staff member and also the profile attached to an auth identity.
type User struct {
	ID           string   `json:"id"`
	Name         string   `json:"name" binding:"required"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"` // only the postgres backend stores it
	Role         UserRole `json:"role"`
	Avatar       string   `json:"avatar,omitempty"`
	Active       bool     `json:"active"`
	Specialty    string   `json:"specialty,omitempty"`
}

// Credentials for the login request
type Credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
