package domain

import "time"

// Role is the authorization level carried by an identity.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Scopes an access token may be granted.
const (
	ScopeUser  = "user"
	ScopeAdmin = "admin"
)

// Credential bounds enforced at registration and password change.
const (
	UsernameMinLen = 3
	UsernameMaxLen = 50
	PasswordMinLen = 8
	PasswordMaxLen = 72 // bcrypt's input limit in bytes
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// AllowedScopes returns the scopes a token issued for r may carry.
func (r Role) AllowedScopes() []string {
	if r == RoleAdmin {
		return []string{ScopeUser, ScopeAdmin}
	}
	return []string{ScopeUser}
}

// GrantScopes narrows requested to what r allows, keeping request order.
// An empty request grants every allowed scope.
func (r Role) GrantScopes(requested []string) []string {
	allowed := r.AllowedScopes()
	if len(requested) == 0 {
		return allowed
	}

	granted := make([]string, 0, len(requested))
	seen := make(map[string]struct{}, len(requested))
	for _, s := range requested {
		if _, dup := seen[s]; dup {
			continue
		}
		for _, a := range allowed {
			if s == a {
				granted = append(granted, s)
				seen[s] = struct{}{}
				break
			}
		}
	}
	return granted
}

// User models an authenticated actor in the system.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
