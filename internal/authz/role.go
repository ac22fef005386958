package authz

import (
	"strconv"
	"strings"
)

// Role is a canonical, lowercased account role.
type Role string

// Canonical roles in increasing order of privilege.
const (
	RoleViewer     Role = "viewer"
	RoleUser       Role = "user"
	RoleManager    Role = "manager"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super admin"
)

// legacyRoleCodes maps the integer codes used by pre-migration clients.
var legacyRoleCodes = map[int]Role{
	1: RoleViewer,
	2: RoleUser,
	3: RoleManager,
	4: RoleAdmin,
}

// manageableRoles is the directed allow-table behind CanManageRole. A role
// never appears in its own set: lateral actions between peers are denied
// here, and self-identity is guarded separately by the action rules.
var manageableRoles = map[Role][]Role{
	RoleSuperAdmin: {RoleUser, RoleViewer, RoleManager, RoleAdmin},
	RoleAdmin:      {RoleUser, RoleViewer, RoleManager},
	RoleManager:    {RoleUser, RoleViewer},
	RoleViewer:     {},
	RoleUser:       {},
}

// AllRoles returns the assignable role catalog.
func AllRoles() []Role {
	return []Role{RoleUser, RoleViewer, RoleManager, RoleAdmin, RoleSuperAdmin}
}

// ParseRole normalizes an incoming role value to a canonical Role. Role
// strings arrive with inconsistent casing and whitespace; legacy clients
// still send integer codes. Unrecognized input yields the empty Role, which
// every lookup treats as deny.
func ParseRole(value any) Role {
	switch v := value.(type) {
	case Role:
		return normalizeRole(string(v))
	case string:
		return normalizeRole(v)
	case int:
		return legacyRoleCodes[v]
	case int64:
		return legacyRoleCodes[int(v)]
	case float64:
		// JSON numbers decode as float64.
		return legacyRoleCodes[int(v)]
	default:
		return ""
	}
}

func normalizeRole(s string) Role {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	if code, err := strconv.Atoi(s); err == nil {
		return legacyRoleCodes[code]
	}
	for _, role := range AllRoles() {
		if s == string(role) {
			return role
		}
	}
	return ""
}

// ValidRole reports whether value normalizes to a catalog role.
func ValidRole(value any) bool {
	return ParseRole(value) != ""
}

// CanManageRole reports whether an actor holding current may create, update,
// delete or assign an account holding target. Both arguments accept canonical
// strings, Role values or legacy integer codes. Unknown roles deny.
func CanManageRole(current, target any) bool {
	cur := ParseRole(current)
	tgt := ParseRole(target)
	if cur == "" || tgt == "" {
		return false
	}
	for _, allowed := range manageableRoles[cur] {
		if allowed == tgt {
			return true
		}
	}
	return false
}

// AdminTier reports whether role bypasses page-permission checks.
func (r Role) AdminTier() bool {
	return adminTier(r)
}

// ManagementTier reports whether role may administer user accounts at all.
func (r Role) ManagementTier() bool {
	return managementTier(r)
}

// adminTier reports whether role bypasses page-permission checks.
func adminTier(role Role) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}

// managementTier reports whether role may administer user accounts at all.
func managementTier(role Role) bool {
	return role == RoleManager || role == RoleAdmin || role == RoleSuperAdmin
}
