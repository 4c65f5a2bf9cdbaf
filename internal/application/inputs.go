package application

import (
	"strings"
	"time"

	"github.com/oksasatya/portofolio/internal/domain/entity"
	"github.com/oksasatya/portofolio/pkg/sanitize"
)

const dateLayout = "2006-01-02"

// TitleInput is a required short bilingual field; the Indonesian variant is mandatory.
type TitleInput struct {
	ID string `json:"id" binding:"required,max=200"`
	EN string `json:"en" binding:"max=200"`
}

func (t TitleInput) plain() entity.Localized {
	return entity.Localized{ID: sanitize.Plain(t.ID), EN: sanitize.Plain(t.EN)}
}

// TextInput is an optional bilingual rich-text field.
type TextInput struct {
	ID string `json:"id" binding:"max=20000"`
	EN string `json:"en" binding:"max=20000"`
}

func (t TextInput) rich() entity.Localized {
	return entity.Localized{ID: sanitize.Rich(t.ID), EN: sanitize.Rich(t.EN)}
}

func (t TextInput) plain() entity.Localized {
	return entity.Localized{ID: sanitize.Plain(t.ID), EN: sanitize.Plain(t.EN)}
}

type ProjectInput struct {
	Title       TitleInput `json:"title"`
	Description TextInput  `json:"description"`
	Category    string     `json:"category" binding:"max=60"`
	TechStack   []string   `json:"tech_stack" binding:"max=30,dive,max=40"`
	ImageURL    string     `json:"image_url" binding:"omitempty,url"`
	ImagePath   string     `json:"image_path" binding:"max=300"`
	DemoURL     string     `json:"demo_url" binding:"omitempty,url"`
	RepoURL     string     `json:"repo_url" binding:"omitempty,url"`
	Featured    bool       `json:"featured"`
}

func (in ProjectInput) apply(p *entity.Project) {
	p.Title = in.Title.plain()
	p.Description = in.Description.rich()
	p.Category = strings.ToLower(sanitize.Plain(in.Category))
	p.TechStack = cleanList(in.TechStack)
	p.ImageURL = in.ImageURL
	p.ImagePath = in.ImagePath
	p.DemoURL = in.DemoURL
	p.RepoURL = in.RepoURL
	p.Featured = in.Featured
}

type CertificateInput struct {
	Name          string `json:"name" binding:"required,max=200"`
	Issuer        string `json:"issuer" binding:"max=200"`
	IssuedAt      string `json:"issued_at" binding:"required,datetime=2006-01-02"`
	ExpiresAt     string `json:"expires_at" binding:"omitempty,datetime=2006-01-02"`
	CredentialURL string `json:"credential_url" binding:"omitempty,url"`
	ImageURL      string `json:"image_url" binding:"omitempty,url"`
	ImagePath     string `json:"image_path" binding:"max=300"`
}

func (in CertificateInput) apply(c *entity.Certificate) error {
	issued, err := time.Parse(dateLayout, in.IssuedAt)
	if err != nil {
		return invalid("issued_at", "must match datetime format: "+dateLayout)
	}
	expires, err := optionalDate("expires_at", in.ExpiresAt)
	if err != nil {
		return err
	}
	if expires != nil && expires.Before(issued) {
		return invalid("expires_at", "must not be before issued_at")
	}
	c.Name = sanitize.Plain(in.Name)
	c.Issuer = sanitize.Plain(in.Issuer)
	c.IssuedAt = issued
	c.ExpiresAt = expires
	c.CredentialURL = in.CredentialURL
	c.ImageURL = in.ImageURL
	c.ImagePath = in.ImagePath
	return nil
}

type EducationInput struct {
	Institution string     `json:"institution" binding:"required,max=200"`
	Degree      TitleInput `json:"degree"`
	Field       TextInput  `json:"field"`
	StartYear   int        `json:"start_year" binding:"required,year"`
	EndYear     *int       `json:"end_year" binding:"omitempty,year"`
	Description TextInput  `json:"description"`
}

func (in EducationInput) apply(e *entity.Education) error {
	if in.EndYear != nil && *in.EndYear < in.StartYear {
		return invalid("end_year", "must not be before start_year")
	}
	e.Institution = sanitize.Plain(in.Institution)
	e.Degree = in.Degree.plain()
	e.Field = in.Field.plain()
	e.StartYear = in.StartYear
	e.EndYear = in.EndYear
	e.Description = in.Description.rich()
	return nil
}

type ExperienceInput struct {
	Company     string     `json:"company" binding:"required,max=200"`
	Position    TitleInput `json:"position"`
	Location    string     `json:"location" binding:"max=120"`
	StartDate   string     `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate     string     `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Description TextInput  `json:"description"`
}

func (in ExperienceInput) apply(e *entity.Experience) error {
	start, err := time.Parse(dateLayout, in.StartDate)
	if err != nil {
		return invalid("start_date", "must match datetime format: "+dateLayout)
	}
	end, err := optionalDate("end_date", in.EndDate)
	if err != nil {
		return err
	}
	if end != nil && end.Before(start) {
		return invalid("end_date", "must not be before start_date")
	}
	e.Company = sanitize.Plain(in.Company)
	e.Position = in.Position.plain()
	e.Location = sanitize.Plain(in.Location)
	e.StartDate = start
	e.EndDate = end
	e.Description = in.Description.rich()
	return nil
}

// ProfileInput never carries a role; roles are assigned out of band.
type ProfileInput struct {
	FullName   string            `json:"full_name" binding:"required,max=120"`
	Headline   TextInput         `json:"headline"`
	Bio        TextInput         `json:"bio"`
	AvatarURL  string            `json:"avatar_url" binding:"omitempty,url"`
	AvatarPath string            `json:"avatar_path" binding:"max=300"`
	Email      string            `json:"email" binding:"omitempty,email"`
	Phone      string            `json:"phone" binding:"max=40"`
	Location   string            `json:"location" binding:"max=120"`
	ResumeURL  string            `json:"resume_url" binding:"omitempty,url"`
	Socials    map[string]string `json:"socials" binding:"max=12,dive,keys,max=30,endkeys,url"`
}

func (in ProfileInput) apply(p *entity.Profile) {
	p.FullName = sanitize.Plain(in.FullName)
	p.Headline = in.Headline.plain()
	p.Bio = in.Bio.rich()
	p.AvatarURL = in.AvatarURL
	p.AvatarPath = in.AvatarPath
	p.Email = in.Email
	p.Phone = sanitize.Plain(in.Phone)
	p.Location = sanitize.Plain(in.Location)
	p.ResumeURL = in.ResumeURL
	p.Socials = map[string]string{}
	for k, v := range in.Socials {
		if k = strings.ToLower(sanitize.Plain(k)); k != "" {
			p.Socials[k] = v
		}
	}
}

type ContactInput struct {
	Name    string `json:"name" binding:"required,max=120"`
	Email   string `json:"email" binding:"required,email,max=200"`
	Subject string `json:"subject" binding:"max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}

// ReplyInput is the owner's answer to a contact message.
type ReplyInput struct {
	Subject string `json:"subject" binding:"required,max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}

func optionalDate(field, v string) (*time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, invalid(field, "must match datetime format: "+dateLayout)
	}
	return &t, nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = sanitize.Plain(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ownsObject reports whether key was uploaded by ownerID into one of
// folders. Keys have the form <folder>/<ownerID>/<name>.
func ownsObject(ownerID, key string, folders ...string) bool {
	if key == "" {
		return true
	}
	parts := strings.Split(key, "/")
	if len(parts) != 3 || parts[1] != ownerID || parts[2] == "" || strings.Contains(key, "..") {
		return false
	}
	for _, f := range folders {
		if parts[0] == f {
			return true
		}
	}
	return false
}
