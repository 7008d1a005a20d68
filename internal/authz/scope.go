package authz

import (
	"github.com/spec-kit/helpdesk-access/internal/auth"
	"github.com/spec-kit/helpdesk-access/internal/domain"
)

// ScopeKind discriminates ticket visibility scopes.
type ScopeKind string

const (
	// ScopeUnrestricted grants access to every ticket row.
	ScopeUnrestricted ScopeKind = "UNRESTRICTED"
	// ScopeOwned restricts to rows assigned to the principal's staff
	// profile, created by the principal, or carrying the profile in the
	// assignee set.
	ScopeOwned ScopeKind = "OWNED"
	// ScopeCreatedOnly restricts to rows created by the principal. Applies
	// to staff-typed principals without a staff profile.
	ScopeCreatedOnly ScopeKind = "CREATED_ONLY"
	// ScopeClientOwned restricts to rows belonging to the principal's
	// client organization.
	ScopeClientOwned ScopeKind = "CLIENT_OWNED"
)

// TicketScope is the declarative visibility scope for one principal. The
// same value drives both the listing query constraints and single-ticket
// authorization, so the two paths cannot drift apart.
type TicketScope struct {
	Kind           ScopeKind
	StaffProfileID string
	PrincipalID    string
	ClientID       string
}

// TicketScopeFor derives the visibility scope for a principal.
func TicketScopeFor(p *auth.Principal) TicketScope {
	if p == nil {
		return TicketScope{Kind: ScopeCreatedOnly}
	}
	if auth.IsManager(p.Role) || auth.IsAdmin(p.Role) {
		return TicketScope{Kind: ScopeUnrestricted}
	}
	if p.IsClient() {
		clientID, _ := p.Client()
		return TicketScope{Kind: ScopeClientOwned, ClientID: clientID}
	}
	if staffID, ok := p.StaffProfile(); ok {
		return TicketScope{Kind: ScopeOwned, StaffProfileID: staffID, PrincipalID: p.ID}
	}
	return TicketScope{Kind: ScopeCreatedOnly, PrincipalID: p.ID}
}

// Matches reports whether a single ticket falls inside the scope.
func (s TicketScope) Matches(t *domain.Ticket) bool {
	if t == nil {
		return false
	}
	switch s.Kind {
	case ScopeUnrestricted:
		return true
	case ScopeOwned:
		if s.StaffProfileID != "" {
			if t.AssignedTo != nil && *t.AssignedTo == s.StaffProfileID {
				return true
			}
			for _, staffID := range t.AssigneeStaffIDs {
				if staffID == s.StaffProfileID {
					return true
				}
			}
		}
		return s.PrincipalID != "" && t.CreatedBy == s.PrincipalID
	case ScopeCreatedOnly:
		return s.PrincipalID != "" && t.CreatedBy == s.PrincipalID
	case ScopeClientOwned:
		return s.ClientID != "" && t.ClientID == s.ClientID
	default:
		return false
	}
}
