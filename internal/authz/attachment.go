package authz

import "github.com/spec-kit/helpdesk-access/internal/auth"

// AttachmentContext carries the joined record shapes needed for one
// attachment decision: the attachment's normalized uploader plus the parent
// ticket's ownership fields. Built per request, never persisted. UploaderID
// is already normalized by the repository layer; the decision logic never
// sees the historical uploaded_by/created_by column split.
type AttachmentContext struct {
	AttachmentID     string
	UploaderID       string
	TicketID         string
	ClientID         string
	CreatorID        string
	AssigneeStaffIDs []string
}

// attachmentAccessAllowed is a pure OR over four clauses: uploader
// identity, elevated role, assignee membership, client association. Each
// clause short-circuits to false on missing optional identity rather than
// erroring.
func attachmentAccessAllowed(p *auth.Principal, ac AttachmentContext) bool {
	if p == nil {
		return false
	}
	if p.ID != "" && p.ID == ac.UploaderID {
		return true
	}
	if auth.IsAdmin(p.Role) || auth.IsManager(p.Role) {
		return true
	}
	if staffID, ok := p.StaffProfile(); ok {
		for _, assignee := range ac.AssigneeStaffIDs {
			if assignee == staffID {
				return true
			}
		}
	}
	if p.IsClient() {
		if clientID, ok := p.Client(); ok && clientID == ac.ClientID {
			return true
		}
	}
	return false
}
