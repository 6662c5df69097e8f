package domain

import "strings"

// Role is the closed set of roles the backend may report for a user.
// MANAGER, SUPERVISOR and ADMIN collapse to a single authorization tier;
// MERCHANDISER is the field-worker tier.
type Role string

const (
	RoleMerchandiser Role = "MERCHANDISER"
	RoleManager      Role = "MANAGER"
	RoleSupervisor   Role = "SUPERVISOR"
	RoleAdmin        Role = "ADMIN"

	// RoleUnknown is used when a profile lookup fails during session
	// resolution. It grants access to neither protected tree.
	RoleUnknown Role = "UNKNOWN"
)

// NormalizeRole maps a loosely-typed role string from the backend onto the
// closed Role set. Unrecognised values become RoleUnknown so that string
// comparisons never leak past this boundary.
func NormalizeRole(s string) Role {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MERCHANDISER":
		return RoleMerchandiser
	case "MANAGER":
		return RoleManager
	case "SUPERVISOR":
		return RoleSupervisor
	case "ADMIN":
		return RoleAdmin
	default:
		return RoleUnknown
	}
}

// ManagerTier reports whether the role may access the manager dashboard tree.
func (r Role) ManagerTier() bool {
	return r == RoleManager || r == RoleSupervisor || r == RoleAdmin
}

// WorkerTier reports whether the role may access the mobile worker tree.
func (r Role) WorkerTier() bool {
	return r == RoleMerchandiser
}

func (r Role) String() string { return string(r) }
