package repository

import (
	"context"

	"github.com/oksasatya/portofolio/internal/domain/entity"
)

// RoleRepository resolves the stored role of a user. A missing row is
// reported as ErrNotFound.
type RoleRepository interface {
	LookupRole(ctx context.Context, userID string) (string, error)
}

// ProfileRepository manages profile rows. Update never changes the role.
type ProfileRepository interface {
	RoleRepository
	Get(ctx context.Context, userID string) (*entity.Profile, error)
	Upsert(ctx context.Context, p *entity.Profile) error
	FirstAdmin(ctx context.Context) (*entity.Profile, error)
}
