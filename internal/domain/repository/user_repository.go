package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/portofolio/internal/domain/entity"
)

// ErrNotFound is returned when a row does not exist or is not owned by the caller.
var ErrNotFound = errors.New("not found")

// ErrSessionRotated is returned by Rotate when the stored sid no longer
// matches the expected one.
var ErrSessionRotated = errors.New("session already rotated")

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, e entity.AuditEntry) error
}

// SessionRepository stores the single live session of each user. A missing
// session is reported as ErrNotFound. Rotate swaps fromSID for toSID only
// while fromSID is still the live sid, and keeps fromSID usable for a short
// grace window.
type SessionRepository interface {
	Save(ctx context.Context, s *entity.Session) error
	Get(ctx context.Context, userID string) (*entity.Session, error)
	Rotate(ctx context.Context, userID, fromSID, toSID string) error
	Delete(ctx context.Context, userID string) error
}
