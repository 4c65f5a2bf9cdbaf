package gate

import (
	"errors"

	"github.com/oksasatya/portofolio/internal/domain/entity"
)

// RoleKind is the outcome of a role lookup. The zero value is
// RoleLookupError so an unset result never authorizes.
type RoleKind int

const (
	RoleLookupError RoleKind = iota
	RoleNotAdmin
	RoleAdmin
)

func (k RoleKind) String() string {
	switch k {
	case RoleAdmin:
		return "admin"
	case RoleNotAdmin:
		return "not_admin"
	default:
		return "lookup_error"
	}
}

// ErrNoRoleLookup is reported when the gate has no role source configured.
var ErrNoRoleLookup = errors.New("gate: role lookup not configured")

// RoleResult is the tagged variant {Admin, NotAdmin, LookupError}.
type RoleResult struct {
	Kind RoleKind
	Role string
	Err  error
}

// Classify maps a raw lookup result onto a RoleResult. Any error, including
// a missing row, is a lookup error.
func Classify(role string, err error) RoleResult {
	if err != nil {
		return RoleResult{Kind: RoleLookupError, Err: err}
	}
	if (entity.RoleAssignment{Role: role}).IsAdmin() {
		return RoleResult{Kind: RoleAdmin, Role: role}
	}
	return RoleResult{Kind: RoleNotAdmin, Role: role}
}

// Authorized is true only for RoleAdmin.
func (r RoleResult) Authorized() bool {
	switch r.Kind {
	case RoleAdmin:
		return true
	case RoleNotAdmin, RoleLookupError:
		return false
	default:
		return false
	}
}
