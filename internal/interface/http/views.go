package handlers

import (
	"time"

	"github.com/oksasatya/portofolio/internal/application"
	"github.com/oksasatya/portofolio/internal/domain/entity"
)

// Public pages resolve every bilingual field to a single language.

type profileView struct {
	FullName  string            `json:"full_name"`
	Headline  string            `json:"headline"`
	Bio       string            `json:"bio"`
	AvatarURL string            `json:"avatar_url"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	Location  string            `json:"location"`
	ResumeURL string            `json:"resume_url"`
	Socials   map[string]string `json:"socials"`
}

type projectView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	TechStack   []string  `json:"tech_stack"`
	ImageURL    string    `json:"image_url"`
	DemoURL     string    `json:"demo_url"`
	RepoURL     string    `json:"repo_url"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"created_at"`
}

type certificateView struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Issuer        string     `json:"issuer"`
	IssuedAt      time.Time  `json:"issued_at"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	CredentialURL string     `json:"credential_url"`
	ImageURL      string     `json:"image_url"`
}

type educationView struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartYear   int    `json:"start_year"`
	EndYear     *int   `json:"end_year,omitempty"`
	Description string `json:"description"`
}

type experienceView struct {
	ID          string     `json:"id"`
	Company     string     `json:"company"`
	Position    string     `json:"position"`
	Location    string     `json:"location"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description"`
}

type landingView struct {
	Profile      *profileView      `json:"profile"`
	Featured     []projectView     `json:"featured"`
	Experience   []experienceView  `json:"experience"`
	Education    []educationView   `json:"education"`
	Certificates []certificateView `json:"certificates"`
}

func newProfileView(p *entity.Profile, lang string) *profileView {
	if p == nil {
		return nil
	}
	return &profileView{
		FullName:  p.FullName,
		Headline:  p.Headline.Pick(lang),
		Bio:       p.Bio.Pick(lang),
		AvatarURL: p.AvatarURL,
		Email:     p.Email,
		Phone:     p.Phone,
		Location:  p.Location,
		ResumeURL: p.ResumeURL,
		Socials:   p.Socials,
	}
}

func newProjectView(p entity.Project, lang string) projectView {
	return projectView{
		ID:          p.ID,
		Title:       p.Title.Pick(lang),
		Description: p.Description.Pick(lang),
		Category:    p.Category,
		TechStack:   p.TechStack,
		ImageURL:    p.ImageURL,
		DemoURL:     p.DemoURL,
		RepoURL:     p.RepoURL,
		Featured:    p.Featured,
		CreatedAt:   p.CreatedAt,
	}
}

func newCertificateView(c entity.Certificate, _ string) certificateView {
	return certificateView{
		ID:            c.ID,
		Name:          c.Name,
		Issuer:        c.Issuer,
		IssuedAt:      c.IssuedAt,
		ExpiresAt:     c.ExpiresAt,
		CredentialURL: c.CredentialURL,
		ImageURL:      c.ImageURL,
	}
}

func newEducationView(e entity.Education, lang string) educationView {
	return educationView{
		ID:          e.ID,
		Institution: e.Institution,
		Degree:      e.Degree.Pick(lang),
		Field:       e.Field.Pick(lang),
		StartYear:   e.StartYear,
		EndYear:     e.EndYear,
		Description: e.Description.Pick(lang),
	}
}

func newExperienceView(e entity.Experience, lang string) experienceView {
	return experienceView{
		ID:          e.ID,
		Company:     e.Company,
		Position:    e.Position.Pick(lang),
		Location:    e.Location,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		Current:     e.Current(),
		Description: e.Description.Pick(lang),
	}
}

func newLandingView(l *application.Landing, lang string) landingView {
	return landingView{
		Profile:      newProfileView(l.Profile, lang),
		Featured:     views(l.Featured, lang, newProjectView),
		Experience:   views(l.Experience, lang, newExperienceView),
		Education:    views(l.Education, lang, newEducationView),
		Certificates: views(l.Certificates, lang, newCertificateView),
	}
}

func views[T, V any](in []T, lang string, fn func(T, string) V) []V {
	out := make([]V, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v, lang))
	}
	return out
}
