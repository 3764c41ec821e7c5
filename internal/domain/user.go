package domain

import "time"

// User is a record in the identity directory. CustomClaims holds facts the
// identity provider attaches to the subject; the "role" claim is the one
// the service cares about.
type User struct {
	Subject       string
	Email         string
	EmailVerified bool
	DisplayName   string
	Disabled      bool
	CustomClaims  map[string]string
	CreatedAt     time.Time
	LastLoginAt   *time.Time
}

// RoleClaim is the custom-claim key carrying the subject's role.
const RoleClaim = "role"

// EffectiveRole derives the user's role: the role claim when present and
// valid, otherwise the lowest-privilege default.
func (u User) EffectiveRole() Role {
	return RoleOrDefault(u.CustomClaims[RoleClaim])
}
