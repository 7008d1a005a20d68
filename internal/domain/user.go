package domain

import "time"

// User is the domain model for every account that can log in, staff and
// client alike. ClientID is set only for client accounts.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	Active       bool
	ClientID     *string
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsClient reports whether the account belongs to a client organization.
func (u *User) IsClient() bool {
	return u.Role == RoleClient
}
