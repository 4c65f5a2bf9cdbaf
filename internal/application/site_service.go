package application

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/portofolio/internal/domain/entity"
	repo "github.com/oksasatya/portofolio/internal/domain/repository"
	"github.com/oksasatya/portofolio/internal/infrastructure/search"
)

const (
	DefaultGalleryLimit = 9
	MaxGalleryLimit     = 50
	// MaxGalleryWindow caps page*limit; it matches the search index's
	// default max_result_window.
	MaxGalleryWindow = 10000
)

// SiteService serves the public pages of the site owner.
type SiteService struct {
	Profiles     repo.ProfileRepository
	Projects     repo.ProjectRepository
	Certificates repo.CertificateRepository
	Educations   repo.EducationRepository
	Experiences  repo.ExperienceRepository
	Index        ProjectIndexer
	Logger       *logrus.Logger

	ownerID string
	mu      sync.Mutex
	cached  string
}

// NewSiteService builds the service. ownerID pins the site owner; when
// empty the earliest admin profile is used.
func NewSiteService(profiles repo.ProfileRepository, projects repo.ProjectRepository,
	certs repo.CertificateRepository, edus repo.EducationRepository, exps repo.ExperienceRepository,
	index ProjectIndexer, ownerID string, logger *logrus.Logger) *SiteService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &SiteService{
		Profiles:     profiles,
		Projects:     projects,
		Certificates: certs,
		Educations:   edus,
		Experiences:  exps,
		Index:        index,
		Logger:       logger,
		ownerID:      ownerID,
	}
}

// OwnerID resolves the site owner. A successful lookup is cached for the
// life of the process.
func (s *SiteService) OwnerID(ctx context.Context) (string, error) {
	if s.ownerID != "" {
		return s.ownerID, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != "" {
		return s.cached, nil
	}
	p, err := s.Profiles.FirstAdmin(ctx)
	if errors.Is(err, repo.ErrNotFound) {
		return "", ErrSiteOwnerUnset
	}
	if err != nil {
		return "", err
	}
	s.cached = p.UserID
	return s.cached, nil
}

type Landing struct {
	Profile      *entity.Profile
	Featured     []entity.Project
	Experience   []entity.Experience
	Education    []entity.Education
	Certificates []entity.Certificate
}

func (s *SiteService) Landing(ctx context.Context) (*Landing, error) {
	owner, err := s.OwnerID(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.Profiles.Get(ctx, owner)
	if err != nil {
		return nil, storeErr(err)
	}
	featured, _, err := s.Projects.List(ctx, owner, repo.ProjectFilter{Featured: true, Limit: 6})
	if err != nil {
		return nil, err
	}
	exps, err := s.Experiences.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	edus, err := s.Educations.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	certs, err := s.Certificates.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	return &Landing{Profile: p, Featured: featured, Experience: exps, Education: edus, Certificates: certs}, nil
}

type GalleryQuery struct {
	Query    string
	Category string
	Page     int
	Limit    int
}

// Normalize clamps paging to page >= 1, 1 <= limit <= MaxGalleryLimit and
// page*limit <= MaxGalleryWindow, so the offset can never overflow.
func (q GalleryQuery) Normalize() GalleryQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultGalleryLimit
	}
	if q.Limit > MaxGalleryLimit {
		q.Limit = MaxGalleryLimit
	}
	if maxPage := MaxGalleryWindow / q.Limit; q.Page > maxPage {
		q.Page = maxPage
	}
	return q
}

type Gallery struct {
	Items []entity.Project
	Page  int
	Limit int
	Total int
}

// Gallery lists the owner's projects. A text query goes to the search index
// when it is enabled and falls back to SQL matching on index errors.
func (s *SiteService) Gallery(ctx context.Context, q GalleryQuery) (*Gallery, error) {
	q = q.Normalize()
	owner, err := s.OwnerID(ctx)
	if err != nil {
		return nil, err
	}
	offset := (q.Page - 1) * q.Limit

	if q.Query != "" && s.Index != nil && s.Index.Enabled() {
		ids, total, err := s.Index.Search(ctx, search.Query{
			OwnerID: owner, Text: q.Query, Category: q.Category, From: offset, Size: q.Limit,
		})
		if err == nil {
			items, err := s.Projects.GetMany(ctx, owner, ids)
			if err != nil {
				return nil, err
			}
			return &Gallery{Items: items, Page: q.Page, Limit: q.Limit, Total: total}, nil
		}
		s.Logger.WithError(err).Warn("es search failed; using sql")
	}

	items, total, err := s.Projects.List(ctx, owner, repo.ProjectFilter{
		Query: q.Query, Category: q.Category, Limit: q.Limit, Offset: offset,
	})
	if err != nil {
		return nil, err
	}
	return &Gallery{Items: items, Page: q.Page, Limit: q.Limit, Total: total}, nil
}

func (s *SiteService) Project(ctx context.Context, id string) (*entity.Project, error) {
	owner, err := s.OwnerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := scoped(owner, id); err != nil {
		return nil, err
	}
	p, err := s.Projects.Get(ctx, owner, id)
	return p, storeErr(err)
}

func (s *SiteService) Profile(ctx context.Context) (*entity.Profile, error) {
	owner, err := s.OwnerID(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.Profiles.Get(ctx, owner)
	return p, storeErr(err)
}
