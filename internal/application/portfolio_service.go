package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/portofolio/internal/domain/entity"
	repo "github.com/oksasatya/portofolio/internal/domain/repository"
	"github.com/oksasatya/portofolio/internal/infrastructure/search"
	"github.com/oksasatya/portofolio/internal/infrastructure/storage"
	"github.com/oksasatya/portofolio/internal/metrics"
)

// ProjectIndexer mirrors projects into the search index.
type ProjectIndexer interface {
	Enabled() bool
	Index(ctx context.Context, p *entity.Project) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, q search.Query) ([]string, int, error)
}

// PortfolioService manages the admin's projects, certificates, education
// and experience. Every method takes the owner id of the current session;
// rows of other owners are reported as ErrNotFound.
type PortfolioService struct {
	Projects     repo.ProjectRepository
	Certificates repo.CertificateRepository
	Educations   repo.EducationRepository
	Experiences  repo.ExperienceRepository
	Objects      storage.ObjectStore
	Index        ProjectIndexer
	Logger       *logrus.Logger
	audit        auditor
}

func NewPortfolioService(projects repo.ProjectRepository, certs repo.CertificateRepository,
	edus repo.EducationRepository, exps repo.ExperienceRepository, objects storage.ObjectStore,
	index ProjectIndexer, audit repo.AuditRepository, rec metrics.WriteRecorder, logger *logrus.Logger) *PortfolioService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &PortfolioService{
		Projects:     projects,
		Certificates: certs,
		Educations:   edus,
		Experiences:  exps,
		Objects:      objects,
		Index:        index,
		Logger:       logger,
		audit:        auditor{repo: audit, metrics: rec, logger: logger},
	}
}

const (
	entProject     = "project"
	entCertificate = "certificate"
	entEducation   = "education"
	entExperience  = "experience"

	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// ---- projects ----

func (s *PortfolioService) ListProjects(ctx context.Context, ownerID string) ([]entity.Project, error) {
	if err := scoped(ownerID, ""); err != nil {
		return nil, err
	}
	items, _, err := s.Projects.List(ctx, ownerID, repo.ProjectFilter{})
	return items, err
}

func (s *PortfolioService) GetProject(ctx context.Context, ownerID, id string) (*entity.Project, error) {
	if err := scoped(ownerID, id); err != nil {
		return nil, err
	}
	p, err := s.Projects.Get(ctx, ownerID, id)
	return p, storeErr(err)
}

func (s *PortfolioService) CreateProject(ctx context.Context, ownerID string, in ProjectInput) (p *entity.Project, err error) {
	if err := scoped(ownerID, ""); err != nil {
		return nil, err
	}
	if !ownsObject(ownerID, in.ImagePath, folderProjects) {
		return nil, invalid("image_path", "must reference an uploaded object")
	}
	p = &entity.Project{OwnerID: ownerID}
	in.apply(p)
	defer func() { s.audit.write(ctx, ownerID, entProject, opCreate, idOf(p), err) }()
	if err = s.Projects.Create(ctx, p); err != nil {
		return nil, err
	}
	s.reindex(ctx, p)
	return p, nil
}

func (s *PortfolioService) UpdateProject(ctx context.Context, ownerID, id string, in ProjectInput) (p *entity.Project, err error) {
	if err := scoped(ownerID, id); err != nil {
		return nil, err
	}
	if !ownsObject(ownerID, in.ImagePath, folderProjects) {
		return nil, invalid("image_path", "must reference an uploaded object")
	}
	defer func() { s.audit.write(ctx, ownerID, entProject, opUpdate, id, err) }()
	p, err = s.Projects.Get(ctx, ownerID, id)
	if err != nil {
		return nil, storeErr(err)
	}
	oldImage := p.ImagePath
	in.apply(p)
	p.ID, p.OwnerID = id, ownerID
	if err = s.Projects.Update(ctx, p); err != nil {
		return nil, storeErr(err)
	}
	if oldImage != p.ImagePath {
		s.removeObject(ctx, oldImage)
	}
	s.reindex(ctx, p)
	return p, nil
}

func (s *PortfolioService) DeleteProject(ctx context.Context, ownerID, id string) (err error) {
	if err := scoped(ownerID, id); err != nil {
		return err
	}
	defer func() { s.audit.write(ctx, ownerID, entProject, opDelete, id, err) }()
	p, err := s.Projects.Get(ctx, ownerID, id)
	if err != nil {
		return storeErr(err)
	}
	if err = s.Projects.Delete(ctx, ownerID, id); err != nil {
		return storeErr(err)
	}
	s.removeObject(ctx, p.ImagePath)
	if s.Index != nil {
		if iErr := s.Index.Delete(ctx, id); iErr != nil {
			s.Logger.WithError(iErr).WithField("project_id", id).Warn("es delete failed")
		}
	}
	return nil
}

// ---- certificates ----

func (s *PortfolioService) ListCertificates(ctx context.Context, ownerID string) ([]entity.Certificate, error) {
	if err := scoped(ownerID, ""); err != nil {
		return nil, err
	}
	return s.Certificates.List(ctx, ownerID)
}

func (s *PortfolioService) GetCertificate(ctx context.Context, ownerID, id string) (*entity.Certificate, error) {
	if err := scoped(ownerID, id); err != nil {
		return nil, err
	}
	c, err := s.Certificates.Get(ctx, ownerID, id)
	return c, storeErr(err)
}

func (s *PortfolioService) CreateCertificate(ctx context.Context, ownerID string, in CertificateInput) (c *entity.Certificate, err error) {
	if err := scoped(ownerID, ""); err != nil {
		return nil, err
	}
	if !ownsObject(ownerID, in.ImagePath, folderCertificates) {
		return nil, invalid("image_path", "must reference an uploaded object")
	}
	c = &entity.Certificate{OwnerID: ownerID}
	if err := in.apply(c); err != nil {
		return nil, err
	}
	defer func() { s.audit.write(ctx, ownerID, entCertificate, opCreate, idOf(c), err) }()
	if err = s.Certificates.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *PortfolioService) UpdateCertificate(ctx context.Context, ownerID, id string, in CertificateInput) (c *entity.Certificate, err error) {
	if err := scoped(ownerID, id); err != nil {
		return nil, err
	}
	if !ownsObject(ownerID, in.ImagePath, folderCertificates) {
		return nil, invalid("image_path", "must reference an uploaded object")
	}
	c, err = s.Certificates.Get(ctx, ownerID, id)
	if err != nil {
		return nil, storeErr(err)
	}
	oldImage := c.ImagePath
	if err := in.apply(c); err != nil {
		return nil, err
	}
	c.ID, c.OwnerID = id, ownerID
	defer func() { s.audit.write(ctx, ownerID, entCertificate, opUpdate, id, err) }()
	if err = s.Certificates.Update(ctx, c); err != nil {
		return nil, storeErr(err)
	}
	if oldImage != c.ImagePath {
		s.removeObject(ctx, oldImage)
	}
	return c, nil
}

func (s *PortfolioService) DeleteCertificate(ctx context.Context, ownerID, id string) (err error) {
	if err := scoped(ownerID, id); err != nil {
		return err
	}
	defer func() { s.audit.write(ctx, ownerID, entCertificate, opDelete, id, err) }()
	c, err := s.Certificates.Get(ctx, ownerID, id)
	if err != nil {
		return storeErr(err)
	}
	if err = s.Certificates.Delete(ctx, ownerID, id); err != nil {
		return storeErr(err)
	}
	s.removeObject(ctx, c.ImagePath)
	return nil
}

// ---- education ----

func (s *PortfolioService) ListEducation(ctx context.Context, ownerID string) ([]entity.Education, error) {
	if err := scoped(ownerID, ""); err != nil {
		return nil, err
	}
	return s.Educations.List(ctx, ownerID)
}

func (s *PortfolioService) GetEducation(ctx context.Context, ownerID, id string) (*entity.Education, error) {
	if err := scoped(ownerID, id); err != nil {
		return nil, err
	}
	e, err := s.Educations.Get(ctx, ownerID, id)
	return e, storeErr(err)
}

func (s *PortfolioService) CreateEducation(ctx context.Context, ownerID string, in EducationInput) (e *entity.Education, err error) {
	if err := scoped(ownerID, ""); err != nil {
		return nil, err
	}
	e = &entity.Education{OwnerID: ownerID}
	if err := in.apply(e); err != nil {
		return nil, err
	}
	defer func() { s.audit.write(ctx, ownerID, entEducation, opCreate, idOf(e), err) }()
	if err = s.Educations.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *PortfolioService) UpdateEducation(ctx context.Context, ownerID, id string, in EducationInput) (e *entity.Education, err error) {
	if err := scoped(ownerID, id); err != nil {
		return nil, err
	}
	e = &entity.Education{ID: id, OwnerID: ownerID}
	if err := in.apply(e); err != nil {
		return nil, err
	}
	defer func() { s.audit.write(ctx, ownerID, entEducation, opUpdate, id, err) }()
	if err = s.Educations.Update(ctx, e); err != nil {
		return nil, storeErr(err)
	}
	return e, nil
}

func (s *PortfolioService) DeleteEducation(ctx context.Context, ownerID, id string) (err error) {
	if err := scoped(ownerID, id); err != nil {
		return err
	}
	defer func() { s.audit.write(ctx, ownerID, entEducation, opDelete, id, err) }()
	return storeErr(s.Educations.Delete(ctx, ownerID, id))
}

// ---- experience ----

func (s *PortfolioService) ListExperience(ctx context.Context, ownerID string) ([]entity.Experience, error) {
	if err := scoped(ownerID, ""); err != nil {
		return nil, err
	}
	return s.Experiences.List(ctx, ownerID)
}

func (s *PortfolioService) GetExperience(ctx context.Context, ownerID, id string) (*entity.Experience, error) {
	if err := scoped(ownerID, id); err != nil {
		return nil, err
	}
	e, err := s.Experiences.Get(ctx, ownerID, id)
	return e, storeErr(err)
}

func (s *PortfolioService) CreateExperience(ctx context.Context, ownerID string, in ExperienceInput) (e *entity.Experience, err error) {
	if err := scoped(ownerID, ""); err != nil {
		return nil, err
	}
	e = &entity.Experience{OwnerID: ownerID}
	if err := in.apply(e); err != nil {
		return nil, err
	}
	defer func() { s.audit.write(ctx, ownerID, entExperience, opCreate, idOf(e), err) }()
	if err = s.Experiences.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *PortfolioService) UpdateExperience(ctx context.Context, ownerID, id string, in ExperienceInput) (e *entity.Experience, err error) {
	if err := scoped(ownerID, id); err != nil {
		return nil, err
	}
	e = &entity.Experience{ID: id, OwnerID: ownerID}
	if err := in.apply(e); err != nil {
		return nil, err
	}
	defer func() { s.audit.write(ctx, ownerID, entExperience, opUpdate, id, err) }()
	if err = s.Experiences.Update(ctx, e); err != nil {
		return nil, storeErr(err)
	}
	return e, nil
}

func (s *PortfolioService) DeleteExperience(ctx context.Context, ownerID, id string) (err error) {
	if err := scoped(ownerID, id); err != nil {
		return err
	}
	defer func() { s.audit.write(ctx, ownerID, entExperience, opDelete, id, err) }()
	return storeErr(s.Experiences.Delete(ctx, ownerID, id))
}

// ---- helpers ----

// removeObject deletes a replaced or orphaned upload. Failures are logged only.
func (s *PortfolioService) removeObject(ctx context.Context, key string) {
	if key == "" || s.Objects == nil {
		return
	}
	if err := s.Objects.Delete(ctx, key); err != nil {
		s.Logger.WithError(err).WithField("key", key).Warn("object delete failed")
	}
}

func (s *PortfolioService) reindex(ctx context.Context, p *entity.Project) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, p); err != nil {
		s.Logger.WithError(err).WithField("project_id", p.ID).Warn("es index failed")
	}
}

func idOf(v any) string {
	switch x := v.(type) {
	case *entity.Project:
		if x != nil {
			return x.ID
		}
	case *entity.Certificate:
		if x != nil {
			return x.ID
		}
	case *entity.Education:
		if x != nil {
			return x.ID
		}
	case *entity.Experience:
		if x != nil {
			return x.ID
		}
	}
	return ""
}

// OpMessage is the user-facing notification for a failed operation, e.g.
// "failed to delete certificate".
func OpMessage(op, ent string) string {
	return fmt.Sprintf("failed to %s %s", op, ent)
}
