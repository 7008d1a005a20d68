package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-access/internal/domain"
)

// TicketView is the public shape of a ticket.
type TicketView struct {
	ID         string     `json:"id"`
	ClientID   string     `json:"client_id"`
	AssignedTo *string    `json:"assigned_to,omitempty"`
	Subject    string     `json:"subject"`
	Status     string     `json:"status"`
	Priority   string     `json:"priority"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
}

// NewTicketView maps a domain ticket.
func NewTicketView(ticket *domain.Ticket) TicketView {
	return TicketView{
		ID:         ticket.ID,
		ClientID:   ticket.ClientID,
		AssignedTo: ticket.AssignedTo,
		Subject:    ticket.Subject,
		Status:     string(ticket.Status),
		Priority:   string(ticket.Priority),
		CreatedAt:  ticket.CreatedAt,
		UpdatedAt:  ticket.UpdatedAt,
		ClosedAt:   ticket.ClosedAt,
	}
}

// AttachmentView is the public shape of attachment metadata returned to a
// caller authorized to download it.
type AttachmentView struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	FileName  string    `json:"file_name"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAttachmentView maps a domain attachment.
func NewAttachmentView(attachment *domain.Attachment) AttachmentView {
	return AttachmentView{
		ID:        attachment.ID,
		TicketID:  attachment.TicketID,
		FileName:  attachment.FileName,
		MimeType:  attachment.MimeType,
		SizeBytes: attachment.SizeBytes,
		CreatedAt: attachment.CreatedAt,
	}
}
