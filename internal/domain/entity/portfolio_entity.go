package entity

import "time"

// Project is a portfolio gallery item.
type Project struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Title       Localized `json:"title"`
	Description Localized `json:"description"`
	Category    string    `json:"category"`
	TechStack   []string  `json:"tech_stack"`
	ImageURL    string    `json:"image_url"`
	ImagePath   string    `json:"-"`
	DemoURL     string    `json:"demo_url"`
	RepoURL     string    `json:"repo_url"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Certificate struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"owner_id"`
	Name          string     `json:"name"`
	Issuer        string     `json:"issuer"`
	IssuedAt      time.Time  `json:"issued_at"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	CredentialURL string     `json:"credential_url"`
	ImageURL      string     `json:"image_url"`
	ImagePath     string     `json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type Education struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Institution string    `json:"institution"`
	Degree      Localized `json:"degree"`
	Field       Localized `json:"field"`
	StartYear   int       `json:"start_year"`
	EndYear     *int      `json:"end_year,omitempty"`
	Description Localized `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Experience struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Company     string     `json:"company"`
	Position    Localized  `json:"position"`
	Location    string     `json:"location"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Description Localized  `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Current reports whether the position has no end date.
func (e *Experience) Current() bool { return e.EndDate == nil }
