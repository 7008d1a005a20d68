package auth

import "github.com/spec-kit/helpdesk-access/internal/domain"

// Principal is the authenticated actor for the current request. It is built
// once at login, carried inside the session, and immutable afterwards.
// StaffProfileID is set only for staff-typed roles, ClientID only for
// client accounts; either may be absent.
type Principal struct {
	ID             string      `json:"id"`
	Email          string      `json:"email"`
	Role           domain.Role `json:"role"`
	StaffProfileID *string     `json:"staff_profile_id,omitempty"`
	ClientID       *string     `json:"client_id,omitempty"`
}

// IsClient reports whether the principal is a client-organization account.
func (p *Principal) IsClient() bool {
	return p != nil && p.Role == domain.RoleClient
}

// StaffProfile returns the linked staff profile ID and whether one exists.
func (p *Principal) StaffProfile() (string, bool) {
	if p == nil || p.StaffProfileID == nil || *p.StaffProfileID == "" {
		return "", false
	}
	return *p.StaffProfileID, true
}

// Client returns the owning client organization ID and whether one exists.
func (p *Principal) Client() (string, bool) {
	if p == nil || p.ClientID == nil || *p.ClientID == "" {
		return "", false
	}
	return *p.ClientID, true
}
