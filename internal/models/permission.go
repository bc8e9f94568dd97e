package models

// Role is the name of a permission. The set is fixed and seeded by migration.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleEditor Role = "EDITOR"
	RoleReader Role = "READER"
)

// AllRoles lists every role known to the system.
var AllRoles = []Role{RoleAdmin, RoleEditor, RoleReader}

// Valid reports whether r is one of the seeded roles.
func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Permission is a named grantable capability.
type Permission struct {
	ID          string `json:"id"`
	Name        Role   `json:"name"`
	Description string `json:"description"`
}

// UserPermission is a grant of a permission to a user.
type UserPermission struct {
	UserID       string `json:"userId"`
	PermissionID string `json:"permissionId"`
}
