package domain

import "time"

// Attachment stores metadata for a file attached to a ticket. Two uploader
// columns coexist: older rows carry created_by only, newer rows carry
// uploaded_by. The repository layer normalizes the pair into a single
// uploader identity before any authorization decision sees it.
type Attachment struct {
	ID         string
	TicketID   string
	FileName   string
	MimeType   string
	SizeBytes  int64
	UploadedBy *string
	CreatedBy  *string
	Deleted    bool
	CreatedAt  time.Time
}
