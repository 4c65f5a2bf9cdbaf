package entity

import "strings"

const (
	LangID = "id"
	LangEN = "en"
)

// Localized holds the Indonesian and English variants of a text field.
// Stored as JSONB.
type Localized struct {
	ID string `json:"id"`
	EN string `json:"en"`
}

// Pick returns the text for lang, falling back to the other language when empty.
func (l Localized) Pick(lang string) string {
	primary, fallback := l.ID, l.EN
	if lang == LangEN {
		primary, fallback = l.EN, l.ID
	}
	if strings.TrimSpace(primary) != "" {
		return primary
	}
	return fallback
}

func (l Localized) IsZero() bool {
	return strings.TrimSpace(l.ID) == "" && strings.TrimSpace(l.EN) == ""
}

// Map applies fn to both variants.
func (l Localized) Map(fn func(string) string) Localized {
	return Localized{ID: fn(l.ID), EN: fn(l.EN)}
}
