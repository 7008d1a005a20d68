package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
)

// Ticket is the aggregate for support requests. Visibility decisions read
// ClientID, AssignedTo, CreatedBy and the assignee set; everything else is
// payload for the handlers.
type Ticket struct {
	ID               string
	ClientID         string
	AssignedTo       *string
	CreatedBy        string
	AssigneeStaffIDs []string
	Subject          string
	Body             string
	Status           TicketStatus
	Priority         TicketPriority
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ClosedAt         *time.Time
}
