package application

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	repo "github.com/oksasatya/portofolio/internal/domain/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	// ErrForbiddenOwner is returned when an admin operation is attempted
	// without an owner id.
	ErrForbiddenOwner  = errors.New("no active session")
	ErrSiteOwnerUnset  = errors.New("site owner not configured")
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file too large")
	ErrInvalidFolder   = errors.New("invalid upload folder")
	ErrMailDisabled    = errors.New("email sending disabled")
)

// ValidationError reports a payload problem the binding tags cannot express.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s %s", e.Field, e.Message) }

func invalid(field, msg string) error { return &ValidationError{Field: field, Message: msg} }

// scoped validates the owner and row id of an admin call. Malformed ids are
// reported as not found.
func scoped(ownerID, id string) error {
	if ownerID == "" {
		return ErrForbiddenOwner
	}
	if id != "" {
		if _, err := uuid.Parse(id); err != nil {
			return ErrNotFound
		}
	}
	return nil
}

func storeErr(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
