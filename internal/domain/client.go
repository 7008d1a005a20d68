package domain

import "time"

// Client is a customer organization that owns tickets.
type Client struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
