package entity

import "time"

// Profile is the public-facing owner profile. It also carries the user's
// role assignment (one row per user).
type Profile struct {
	UserID     string            `json:"user_id"`
	Role       string            `json:"role"`
	FullName   string            `json:"full_name"`
	Headline   Localized         `json:"headline"`
	Bio        Localized         `json:"bio"`
	AvatarURL  string            `json:"avatar_url"`
	AvatarPath string            `json:"-"`
	Email      string            `json:"email"`
	Phone      string            `json:"phone"`
	Location   string            `json:"location"`
	ResumeURL  string            `json:"resume_url"`
	Socials    map[string]string `json:"socials"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}
