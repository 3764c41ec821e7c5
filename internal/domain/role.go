// Package domain defines the core entities of the loan workflow: roles,
// loan applications and directory user records.
package domain

import "fmt"

// Role is the closed set of roles the service understands. A principal
// always carries exactly one of these; credentials without a role claim
// fall back to DefaultRole.
type Role string

const (
	RoleUser    Role = "user"
	RoleOfficer Role = "officer"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// DefaultRole is the lowest-privilege role, assigned when a credential
// carries no role claim.
const DefaultRole = RoleUser

// AllRoles lists every valid role in ascending privilege order.
var AllRoles = []Role{RoleUser, RoleOfficer, RoleManager, RoleAdmin}

// ParseRole validates s against the closed role enumeration.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleOfficer, RoleManager, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// RoleOrDefault parses s, falling back to DefaultRole when s is empty or
// not a known role.
func RoleOrDefault(s string) Role {
	r, err := ParseRole(s)
	if err != nil {
		return DefaultRole
	}
	return r
}

func (r Role) String() string { return string(r) }
