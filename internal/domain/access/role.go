package access

import (
	"strings"

	"family-dues-go/internal/apperr"
)

type Role string

const (
	RoleMaster       Role = "MASTER"
	RoleDirigente    Role = "DIRIGENTE"
	RoleBeneficiario Role = "BENEFICIARIO"
	RoleFamily       Role = "FAMILY"
)

var ErrUnknownRole = apperr.BadRequest("rol desconocido")

func ParseRole(value string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(value)))
	if !role.Valid() {
		return "", ErrUnknownRole
	}
	return role, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleMaster, RoleDirigente, RoleBeneficiario, RoleFamily:
		return true
	default:
		return false
	}
}

// SessionUser is the identity decoded from a bearer token.
type SessionUser struct {
	ID       string
	Username string
	Role     Role
	RamaID   *string
	FamilyID *string
}

func (u *SessionUser) HasRole(roles ...Role) bool {
	if u == nil {
		return false
	}
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}
