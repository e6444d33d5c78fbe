package access

import "maps"

// Constraint keys added by ApplyRoleFilter. They double as column names in
// the tables that support role scoping.
const (
	KeyRamaID   = "rama_id"
	KeyID       = "id"
	KeyFamilyID = "family_id"
)

type Filter map[string]any

func (f Filter) Clone() Filter {
	out := make(Filter, len(f)+1)
	maps.Copy(out, f)
	return out
}

// ApplyRoleFilter narrows base to the rows the caller may see. A nil user is
// an internal call and sees everything. The input filter is never mutated.
func ApplyRoleFilter(user *SessionUser, base Filter) (Filter, error) {
	out := base.Clone()
	if user == nil {
		return out, nil
	}

	switch user.Role {
	case RoleMaster:
		return out, nil
	case RoleDirigente:
		out[KeyRamaID] = derefOrNil(user.RamaID)
	case RoleBeneficiario:
		out[KeyID] = user.ID
	case RoleFamily:
		out[KeyFamilyID] = derefOrNil(user.FamilyID)
	default:
		return nil, ErrUnknownRole
	}
	return out, nil
}

// derefOrNil keeps a caller without a rama/family scoped to nothing; the
// repositories turn a nil scope value into an empty result.
func derefOrNil(value *string) any {
	if value == nil || *value == "" {
		return nil
	}
	return *value
}
