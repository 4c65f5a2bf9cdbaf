package repository

import (
	"context"

	"github.com/oksasatya/portofolio/internal/domain/entity"
)

// Every method takes the owner id; rows belonging to another owner behave as
// if they do not exist.

type ProjectFilter struct {
	Query    string
	Category string
	Featured bool
	Limit    int
	Offset   int
}

type ProjectRepository interface {
	List(ctx context.Context, ownerID string, f ProjectFilter) ([]entity.Project, int, error)
	Get(ctx context.Context, ownerID, id string) (*entity.Project, error)
	// GetMany returns the owner's projects with the given ids, in id order.
	GetMany(ctx context.Context, ownerID string, ids []string) ([]entity.Project, error)
	Create(ctx context.Context, p *entity.Project) error
	Update(ctx context.Context, p *entity.Project) error
	Delete(ctx context.Context, ownerID, id string) error
	Count(ctx context.Context, ownerID string) (int, error)
}

type CertificateRepository interface {
	List(ctx context.Context, ownerID string) ([]entity.Certificate, error)
	Get(ctx context.Context, ownerID, id string) (*entity.Certificate, error)
	Create(ctx context.Context, c *entity.Certificate) error
	Update(ctx context.Context, c *entity.Certificate) error
	Delete(ctx context.Context, ownerID, id string) error
	Count(ctx context.Context, ownerID string) (int, error)
}

type EducationRepository interface {
	List(ctx context.Context, ownerID string) ([]entity.Education, error)
	Get(ctx context.Context, ownerID, id string) (*entity.Education, error)
	Create(ctx context.Context, e *entity.Education) error
	Update(ctx context.Context, e *entity.Education) error
	Delete(ctx context.Context, ownerID, id string) error
	Count(ctx context.Context, ownerID string) (int, error)
}

type ExperienceRepository interface {
	List(ctx context.Context, ownerID string) ([]entity.Experience, error)
	Get(ctx context.Context, ownerID, id string) (*entity.Experience, error)
	Create(ctx context.Context, e *entity.Experience) error
	Update(ctx context.Context, e *entity.Experience) error
	Delete(ctx context.Context, ownerID, id string) error
	Count(ctx context.Context, ownerID string) (int, error)
}

type ContactRepository interface {
	Create(ctx context.Context, m *entity.ContactMessage) error
	List(ctx context.Context, ownerID string) ([]entity.ContactMessage, error)
	Get(ctx context.Context, ownerID, id string) (*entity.ContactMessage, error)
	MarkRead(ctx context.Context, ownerID, id string) error
	Delete(ctx context.Context, ownerID, id string) error
	CountUnread(ctx context.Context, ownerID string) (int, error)
}
