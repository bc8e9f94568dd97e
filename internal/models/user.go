package models

import "time"

// User represents a registered account. Permissions is populated by reads
// that join the user's grants.
type User struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Never expose this to the client
	Permissions  []Permission `json:"permissions,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Roles returns the names of the permissions granted to the user.
func (u User) Roles() []Role {
	roles := make([]Role, 0, len(u.Permissions))
	for _, p := range u.Permissions {
		roles = append(roles, p.Name)
	}
	return roles
}

// UserFilter narrows a user listing. Empty fields add no constraint.
type UserFilter struct {
	Name  string
	Email string
}

// UserUpdate carries the mutable profile fields. Nil means unchanged.
type UserUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
}
