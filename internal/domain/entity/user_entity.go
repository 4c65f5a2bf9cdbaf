package entity

import (
	"time"
)

// User is the authenticated principal. Accounts are created out of band
// (see cmd/seed); ID is the foreign key used as owner_id everywhere.
//
// Passwords are stored as bcrypt hashes in Password field.
type User struct {
	ID        string
	Email     string
	Password  string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
