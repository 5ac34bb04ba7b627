package domain

// RequireRole fails with ErrForbidden unless identity holds role.
func RequireRole(identity *User, role Role) error {
	if identity == nil || identity.Role != role {
		return ErrForbidden
	}
	return nil
}

// RequireOwnerOrRole fails with ErrForbidden unless identity owns the
// resource or holds role.
func RequireOwnerOrRole(identity *User, ownerID int64, role Role) error {
	if identity == nil {
		return ErrForbidden
	}
	if identity.ID == ownerID || identity.Role == role {
		return nil
	}
	return ErrForbidden
}

// AuthorizeOwnerOrAdmin reports whether identity may act on a resource
// owned by ownerID.
func AuthorizeOwnerOrAdmin(identity *User, ownerID int64) bool {
	return RequireOwnerOrRole(identity, ownerID, RoleAdmin) == nil
}
