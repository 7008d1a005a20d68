package domain

import "time"

// StaffProfile is the employment record linked to a staff-typed user.
// Ticket assignment always references the profile, never the user row.
type StaffProfile struct {
	ID          string
	UserID      string
	DisplayName string
	Department  *string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
