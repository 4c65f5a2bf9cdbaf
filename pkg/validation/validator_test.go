package validation

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type localized struct {
	ID string `json:"id" validate:"required"`
	EN string `json:"en" validate:"max=5"`
}

type payload struct {
	Email string    `json:"email" validate:"required,email"`
	Year  int       `json:"start_year" validate:"year"`
	Lang  string    `json:"lang" validate:"omitempty,lang"`
	Title localized `json:"title"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	Configure(v)
	return v
}

func TestToDetails_ValidationErrors(t *testing.T) {
	err := newValidator().Struct(payload{Email: "nope", Year: 1800, Lang: "fr", Title: localized{EN: "too long"}})

	details := ToDetails(err)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Contains(t, details, "start_year")
	assert.Contains(t, details, "lang")
	assert.Equal(t, "is required", details["title.id"])
	assert.Equal(t, "must be at most 5 characters long", details["title.en"])
}

func TestToDetails_InvalidJSON(t *testing.T) {
	var v map[string]any
	err := json.Unmarshal([]byte("{"), &v)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
}

func TestToDetails_Nil(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
}
