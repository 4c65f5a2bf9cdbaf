package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/portofolio/internal/domain/entity"
	repo "github.com/oksasatya/portofolio/internal/domain/repository"
	"github.com/oksasatya/portofolio/internal/infrastructure/storage"
	"github.com/oksasatya/portofolio/internal/metrics"
)

type ProfileService struct {
	Profiles     repo.ProfileRepository
	Projects     repo.ProjectRepository
	Certificates repo.CertificateRepository
	Educations   repo.EducationRepository
	Experiences  repo.ExperienceRepository
	Contacts     repo.ContactRepository
	Objects      storage.ObjectStore
	Logger       *logrus.Logger
	audit        auditor
}

func NewProfileService(profiles repo.ProfileRepository, projects repo.ProjectRepository,
	certs repo.CertificateRepository, edus repo.EducationRepository, exps repo.ExperienceRepository,
	contacts repo.ContactRepository, objects storage.ObjectStore, audit repo.AuditRepository,
	rec metrics.WriteRecorder, logger *logrus.Logger) *ProfileService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ProfileService{
		Profiles:     profiles,
		Projects:     projects,
		Certificates: certs,
		Educations:   edus,
		Experiences:  exps,
		Contacts:     contacts,
		Objects:      objects,
		Logger:       logger,
		audit:        auditor{repo: audit, metrics: rec, logger: logger},
	}
}

func (s *ProfileService) Get(ctx context.Context, ownerID string) (*entity.Profile, error) {
	if err := scoped(ownerID, ""); err != nil {
		return nil, err
	}
	p, err := s.Profiles.Get(ctx, ownerID)
	return p, storeErr(err)
}

// Update rewrites the owner's profile. The stored role is left untouched.
func (s *ProfileService) Update(ctx context.Context, ownerID string, in ProfileInput) (p *entity.Profile, err error) {
	if err := scoped(ownerID, ""); err != nil {
		return nil, err
	}
	if !ownsObject(ownerID, in.AvatarPath, folderAvatars) {
		return nil, invalid("avatar_path", "must reference an uploaded object")
	}
	defer func() { s.audit.write(ctx, ownerID, "profile", opUpdate, ownerID, err) }()
	p, err = s.Profiles.Get(ctx, ownerID)
	if err != nil {
		return nil, storeErr(err)
	}
	oldAvatar := p.AvatarPath
	in.apply(p)
	p.UserID = ownerID
	if err = s.Profiles.Upsert(ctx, p); err != nil {
		return nil, err
	}
	if oldAvatar != "" && oldAvatar != p.AvatarPath && s.Objects != nil {
		if dErr := s.Objects.Delete(ctx, oldAvatar); dErr != nil {
			s.Logger.WithError(dErr).WithField("key", oldAvatar).Warn("object delete failed")
		}
	}
	return p, nil
}

type DashboardCounts struct {
	Projects       int `json:"projects"`
	Certificates   int `json:"certificates"`
	Education      int `json:"education"`
	Experience     int `json:"experience"`
	UnreadMessages int `json:"unread_messages"`
}

type Dashboard struct {
	Profile *entity.Profile `json:"profile"`
	Counts  DashboardCounts `json:"counts"`
}

// Dashboard loads the owner's profile and row counts.
func (s *ProfileService) Dashboard(ctx context.Context, ownerID string) (*Dashboard, error) {
	if err := scoped(ownerID, ""); err != nil {
		return nil, err
	}
	p, err := s.Profiles.Get(ctx, ownerID)
	if err != nil {
		return nil, storeErr(err)
	}
	d := &Dashboard{Profile: p}
	counters := []struct {
		dst *int
		fn  func(context.Context, string) (int, error)
	}{
		{&d.Counts.Projects, s.Projects.Count},
		{&d.Counts.Certificates, s.Certificates.Count},
		{&d.Counts.Education, s.Educations.Count},
		{&d.Counts.Experience, s.Experiences.Count},
		{&d.Counts.UnreadMessages, s.Contacts.CountUnread},
	}
	for _, c := range counters {
		n, err := c.fn(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}
	return d, nil
}
