package domain

import "time"

// Notice is a public school announcement with at most one attachment.
type Notice struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Date        time.Time   `json:"date"`
	Attachment  *Attachment `json:"attachment,omitempty"`
	CreatedBy   int64       `json:"created_by"`
	UpdatedBy   int64       `json:"updated_by"`
	Active      bool        `json:"active"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
