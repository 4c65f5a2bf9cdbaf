package entity

import "time"

// ContactMessage is a guest submission from the contact page, addressed to
// the site owner.
type ContactMessage struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Locale    string    `json:"locale"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// AuditEntry records an authentication event or an admin write.
type AuditEntry struct {
	UserID    string
	Email     string
	Action    string
	IP        string
	UserAgent string
	Metadata  map[string]any
}
