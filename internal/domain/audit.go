package domain

import "time"

// AuditRecord is an immutable best-effort trail entry for authentication
// and authorization events.
type AuditRecord struct {
	ID         string
	Kind       string
	ActorID    *string
	ActorEmail *string
	Detail     map[string]any
	CreatedAt  time.Time
}
