package entity

import "time"

// Session is the server-side view of an authenticated request. It is derived
// from the access/refresh cookies and the Redis session hash.
type Session struct {
	ID        string // sid, rotated on refresh
	UserID    string
	Email     string
	Name      string
	ExpiresAt time.Time

	// PrevID stays accepted until PrevUntil so requests already in flight
	// with the pre-rotation cookies keep their session.
	PrevID    string
	PrevUntil time.Time
}

// InGrace reports whether sid is the replaced session id and still inside
// its reuse window.
func (s *Session) InGrace(sid string, now time.Time) bool {
	return sid != "" && s.PrevID == sid && now.Before(s.PrevUntil)
}

// Accepts reports whether a token bound to sid belongs to this session.
func (s *Session) Accepts(sid string, now time.Time) bool {
	return sid != "" && (s.ID == sid || s.InGrace(sid, now))
}
