package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/portofolio/internal/domain/entity"
)

const (
	ownerU1 = "11111111-1111-1111-1111-111111111111"
	ownerU2 = "22222222-2222-2222-2222-222222222222"
)

type portfolioFixture struct {
	svc      *PortfolioService
	projects *memProjects
	certs    *memCertificates
	edus     *memEducations
	exps     *memExperiences
	objects  *fakeObjects
	index    *fakeIndex
	audit    *fakeAudit
	rec      *fakeRecorder
}

func newPortfolioFixture() *portfolioFixture {
	f := &portfolioFixture{
		projects: newMemProjects(),
		certs:    newMemCertificates(),
		edus:     newMemEducations(),
		exps:     newMemExperiences(),
		objects:  newFakeObjects(),
		index:    &fakeIndex{enabled: true},
		audit:    &fakeAudit{},
		rec:      &fakeRecorder{},
	}
	f.svc = NewPortfolioService(f.projects, f.certs, f.edus, f.exps, f.objects, f.index, f.audit, f.rec, quietLogger())
	return f
}

func projectInput(title string) ProjectInput {
	return ProjectInput{Title: TitleInput{ID: title, EN: title}, Category: "Web"}
}

// writes are stamped with and scoped to the session owner
func TestProjects_OwnerScoping(t *testing.T) {
	f := newPortfolioFixture()
	ctx := context.Background()

	p, err := f.svc.CreateProject(ctx, ownerU1, projectInput("Situs"))
	require.NoError(t, err)
	assert.Equal(t, ownerU1, p.OwnerID)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "web", p.Category)

	_, err = f.svc.UpdateProject(ctx, ownerU2, p.ID, projectInput("Hijacked"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteProject(ctx, ownerU2, p.ID), ErrNotFound)
	_, err = f.svc.GetProject(ctx, ownerU2, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	stored, err := f.svc.GetProject(ctx, ownerU1, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Situs", stored.Title.ID)

	mine, err := f.svc.ListProjects(ctx, ownerU2)
	require.NoError(t, err)
	assert.Empty(t, mine)

	updated, err := f.svc.UpdateProject(ctx, ownerU1, p.ID, projectInput("Situs baru"))
	require.NoError(t, err)
	assert.Equal(t, ownerU1, updated.OwnerID)
	assert.Equal(t, "Situs baru", updated.Title.ID)

	require.NoError(t, f.svc.DeleteProject(ctx, ownerU1, p.ID))
	assert.Equal(t, []string{"project_create", "project_update", "project_delete"}, f.audit.actions())
	for _, e := range f.audit.entries {
		assert.Equal(t, ownerU1, e.UserID)
	}
}

func TestProjects_RequireOwner(t *testing.T) {
	f := newPortfolioFixture()
	_, err := f.svc.CreateProject(context.Background(), "", projectInput("x"))
	assert.ErrorIs(t, err, ErrForbiddenOwner)
	_, err = f.svc.ListProjects(context.Background(), "")
	assert.ErrorIs(t, err, ErrForbiddenOwner)
	assert.Empty(t, f.projects.rows)
}

func TestProjects_MalformedIDIsNotFound(t *testing.T) {
	f := newPortfolioFixture()
	_, err := f.svc.GetProject(context.Background(), ownerU1, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjects_SanitizesRichText(t *testing.T) {
	f := newPortfolioFixture()
	in := projectInput("<b>Judul</b>")
	in.Description = TextInput{ID: `<p onclick="x()">Halo</p><script>alert(1)</script>`}
	in.TechStack = []string{"Go", " ", "Go", "<i>Redis</i>"}

	p, err := f.svc.CreateProject(context.Background(), ownerU1, in)
	require.NoError(t, err)
	assert.Equal(t, "Judul", p.Title.ID)
	assert.Equal(t, "<p>Halo</p>", p.Description.ID)
	assert.Equal(t, []string{"Go", "Redis"}, p.TechStack)
}

func TestProjects_ImageReplacementDeletesOldObject(t *testing.T) {
	f := newPortfolioFixture()
	ctx := context.Background()
	in := projectInput("Situs")
	in.ImagePath = "projects/" + ownerU1 + "/a.png"
	p, err := f.svc.CreateProject(ctx, ownerU1, in)
	require.NoError(t, err)

	in.ImagePath = "projects/" + ownerU1 + "/b.png"
	_, err = f.svc.UpdateProject(ctx, ownerU1, p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, []string{"projects/" + ownerU1 + "/a.png"}, f.objects.deleted)

	require.NoError(t, f.svc.DeleteProject(ctx, ownerU1, p.ID))
	assert.Equal(t, "projects/"+ownerU1+"/b.png", f.objects.deleted[1])
	assert.Equal(t, []string{p.ID}, f.index.deleted)
	assert.Equal(t, []string{p.ID, p.ID}, f.index.indexed)
}

func TestProjects_ObjectDeleteFailureIsNotSurfaced(t *testing.T) {
	f := newPortfolioFixture()
	f.objects.delErr = errStore
	in := projectInput("Situs")
	in.ImagePath = "projects/" + ownerU1 + "/a.png"
	p, err := f.svc.CreateProject(context.Background(), ownerU1, in)
	require.NoError(t, err)
	assert.NoError(t, f.svc.DeleteProject(context.Background(), ownerU1, p.ID))
}

func TestProjects_RejectsForeignImagePath(t *testing.T) {
	f := newPortfolioFixture()
	in := projectInput("Situs")
	in.ImagePath = "projects/" + ownerU2 + "/a.png"
	_, err := f.svc.CreateProject(context.Background(), ownerU1, in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "image_path", verr.Field)
}

func TestProjects_StoreFailureIsRecorded(t *testing.T) {
	f := newPortfolioFixture()
	f.projects.fail = errStore
	_, err := f.svc.CreateProject(context.Background(), ownerU1, projectInput("x"))
	assert.ErrorIs(t, err, errStore)
	require.Len(t, f.rec.writes, 1)
	assert.Equal(t, write{entity: "project", op: "create", failed: true}, f.rec.writes[0])
	assert.Empty(t, f.audit.entries)
}

func TestCertificates_Dates(t *testing.T) {
	f := newPortfolioFixture()
	ctx := context.Background()

	_, err := f.svc.CreateCertificate(ctx, ownerU1, CertificateInput{Name: "CKA", IssuedAt: "2024-05-01", ExpiresAt: "2023-01-01"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "expires_at", verr.Field)

	c, err := f.svc.CreateCertificate(ctx, ownerU1, CertificateInput{Name: "CKA", IssuedAt: "2024-05-01", ExpiresAt: "2027-05-01"})
	require.NoError(t, err)
	require.NotNil(t, c.ExpiresAt)
	assert.Equal(t, 2027, c.ExpiresAt.Year())
	assert.Equal(t, ownerU1, c.OwnerID)

	_, err = f.svc.UpdateCertificate(ctx, ownerU2, c.ID, CertificateInput{Name: "x", IssuedAt: "2024-05-01"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteCertificate(ctx, ownerU2, c.ID), ErrNotFound)
	assert.NoError(t, f.svc.DeleteCertificate(ctx, ownerU1, c.ID))
}

func TestEducation_Scoping(t *testing.T) {
	f := newPortfolioFixture()
	ctx := context.Background()
	end := 2019
	before := 2010

	_, err := f.svc.CreateEducation(ctx, ownerU1, EducationInput{Institution: "ITB", StartYear: 2015, EndYear: &before})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	e, err := f.svc.CreateEducation(ctx, ownerU1, EducationInput{
		Institution: "ITB",
		Degree:      TitleInput{ID: "Sarjana", EN: "Bachelor"},
		StartYear:   2015,
		EndYear:     &end,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bachelor", e.Degree.Pick(entity.LangEN))

	_, err = f.svc.UpdateEducation(ctx, ownerU2, e.ID, EducationInput{Institution: "x", StartYear: 2015})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.svc.DeleteEducation(ctx, ownerU2, e.ID), ErrNotFound)

	list, err := f.svc.ListEducation(ctx, ownerU1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestExperience_Scoping(t *testing.T) {
	f := newPortfolioFixture()
	ctx := context.Background()

	_, err := f.svc.CreateExperience(ctx, ownerU1, ExperienceInput{Company: "Acme", StartDate: "2022-01-01", EndDate: "2021-01-01"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "end_date", verr.Field)

	e, err := f.svc.CreateExperience(ctx, ownerU1, ExperienceInput{Company: "Acme", StartDate: "2022-01-01"})
	require.NoError(t, err)
	assert.True(t, e.Current())

	updated, err := f.svc.UpdateExperience(ctx, ownerU1, e.ID, ExperienceInput{Company: "Acme", StartDate: "2022-01-01", EndDate: "2023-06-30"})
	require.NoError(t, err)
	assert.False(t, updated.Current())

	_, err = f.svc.GetExperience(ctx, ownerU2, e.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, f.svc.DeleteExperience(ctx, ownerU1, e.ID))
}

func TestOwnsObject(t *testing.T) {
	assert.True(t, ownsObject("u1", "", folderProjects))
	assert.True(t, ownsObject("u1", "projects/u1/x.png", folderProjects))
	assert.False(t, ownsObject("u1", "projects/u2/x.png", folderProjects))
	assert.False(t, ownsObject("u1", "projects/u1/../u2/x.png", folderProjects))
	assert.False(t, ownsObject("u1", "u1/x.png", folderProjects))
	assert.False(t, ownsObject("u1", "documents/u1/cv.pdf", folderProjects))
	assert.True(t, ownsObject("u1", "certificates/u1/cka.pdf", folderCertificates))
	assert.False(t, ownsObject("u1", "avatars/u1/me.png", folderCertificates))
	assert.False(t, ownsObject("u1", "projects/u1/x.png"))
}

func TestImagePathMustMatchEntityFolder(t *testing.T) {
	f := newPortfolioFixture()
	ctx := context.Background()

	in := projectInput("Situs")
	in.ImagePath = "documents/" + ownerU1 + "/cv.pdf"
	_, err := f.svc.CreateProject(ctx, ownerU1, in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "image_path", verr.Field)

	_, err = f.svc.CreateCertificate(ctx, ownerU1, CertificateInput{
		Name: "CKA", IssuedAt: "2024-05-01", ImagePath: "projects/" + ownerU1 + "/a.png",
	})
	require.ErrorAs(t, err, &verr)

	c, err := f.svc.CreateCertificate(ctx, ownerU1, CertificateInput{
		Name: "CKA", IssuedAt: "2024-05-01", ImagePath: "certificates/" + ownerU1 + "/cka.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "certificates/"+ownerU1+"/cka.pdf", c.ImagePath)
}
