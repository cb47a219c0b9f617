package domain

// Identity is the authenticated caller as carried by a verified token.
// CenterID is the center snapshot at issuance (assigned center, else current
// center); it may be stale relative to the database.
type Identity struct {
	UserID   string
	Email    string
	Name     string
	Role     Role
	CenterID string
}

// HasRole reports whether the identity's role is one of roles.
func (id Identity) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if id.Role == r {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the identity is the unrestricted top-level admin.
func (id Identity) IsAdmin() bool { return id.Role == RoleAdmin }

// CanManageCenter is the center-ownership predicate. Admins pass
// unconditionally; center admins pass only for their own center; every other
// role fails.
func (id Identity) CanManageCenter(centerID string) bool {
	switch id.Role {
	case RoleAdmin:
		return true
	case RoleCenterAdmin:
		return id.CenterID != "" && id.CenterID == centerID
	default:
		return false
	}
}

// RequireCenter returns ErrWrongCenter unless the identity can manage centerID.
func (id Identity) RequireCenter(centerID string) error {
	if !id.CanManageCenter(centerID) {
		if id.HasRole(RoleAdmin, RoleCenterAdmin) {
			return ErrWrongCenter
		}
		return ErrForbidden
	}
	return nil
}

// CanActFor reports whether the identity may read or write data owned by
// userID: the owner itself, trainers and admins.
func (id Identity) CanActFor(userID string) bool {
	if id.UserID == userID {
		return true
	}
	return id.HasRole(RoleAdmin, RoleCenterAdmin, RoleTrainer)
}
