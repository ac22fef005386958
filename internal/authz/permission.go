package authz

// Permission identifies a feature area a user may be granted access to.
type Permission string

// Page permission catalog. Adding a page means adding a value here and, if
// the role tiers should see it by default, extending defaultPermissions.
const (
	PermDashboard      Permission = "dashboard"
	PermMap            Permission = "map"
	PermTrackContainer Permission = "track"
	PermDataToday      Permission = "data-today"
	PermDrivers        Permission = "drivers"
	PermVehicles       Permission = "vehicles"
	PermVehiclesTail   Permission = "vehiclestail"
	PermContainers     Permission = "containers"
	PermManagement     Permission = "management"
)

var allPermissions = []Permission{
	PermDashboard,
	PermMap,
	PermTrackContainer,
	PermDataToday,
	PermDrivers,
	PermVehicles,
	PermVehiclesTail,
	PermContainers,
	PermManagement,
}

// defaultPermissions is the role → default grant table. Kept as data so a
// new page is a one-line edit, not a hunt through decision functions.
var defaultPermissions = map[Role][]Permission{
	RoleSuperAdmin: allPermissions,
	RoleAdmin:      allPermissions,
	RoleManager:    allPermissions,
	RoleUser:       {PermMap},
}

// permissionLabels carries the Thai UI labels served by the catalog endpoint.
var permissionLabels = map[Permission]string{
	PermDashboard:      "แดชบอร์ด",
	PermMap:            "GPS รถบรรทุก",
	PermTrackContainer: "GPS คอนเทนเนอร์",
	PermDataToday:      "เพิ่มงานและออกรายงาน",
	PermDrivers:        "คนขับ",
	PermVehicles:       "ทะเบียนหัว",
	PermVehiclesTail:   "ทะเบียนท้าย",
	PermContainers:     "ตู้คอนเทนเนอร์",
	PermManagement:     "การจัดการผู้ใช้",
}

var permissionDescriptions = map[Permission]string{
	PermDashboard:      "เข้าถึงหน้าแดชบอร์ดหลักของระบบ",
	PermMap:            "ดูแผนที่และติดตาม GPS รถบรรทุก",
	PermTrackContainer: "ติดตามตำแหน่ง GPS คอนเทนเนอร์",
	PermDataToday:      "เพิ่มข้อมูลงานและสร้างรายงานประจำวัน",
	PermDrivers:        "จัดการข้อมูลคนขับรถ",
	PermVehicles:       "จัดการข้อมูลทะเบียนหัวรถ",
	PermVehiclesTail:   "จัดการข้อมูลทะเบียนท้ายรถ",
	PermContainers:     "จัดการข้อมูลตู้คอนเทนเนอร์",
	PermManagement:     "จัดการผู้ใช้และสิทธิ์การเข้าถึงระบบ",
}

// AllPermissions returns the full page-permission catalog.
func AllPermissions() []Permission {
	out := make([]Permission, len(allPermissions))
	copy(out, allPermissions)
	return out
}

// ValidPermission reports whether p is a catalog value.
func ValidPermission(p Permission) bool {
	for _, known := range allPermissions {
		if known == p {
			return true
		}
	}
	return false
}

// Label returns the display label for a permission.
func (p Permission) Label() string {
	if label, ok := permissionLabels[p]; ok {
		return label
	}
	return string(p)
}

// Description returns the display description for a permission.
func (p Permission) Description() string {
	return permissionDescriptions[p]
}

// DefaultPermissions computes the grant set a role starts with when no
// explicit grant list exists. Unrecognized roles fall through to the
// least-privilege user default.
func DefaultPermissions(role any) []Permission {
	perms, ok := defaultPermissions[ParseRole(role)]
	if !ok {
		perms = defaultPermissions[RoleUser]
	}
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// Principal is the authenticated actor, constructed once per request from a
// verified credential and immutable for the request's duration.
type Principal struct {
	ID          string
	Role        Role
	Permissions []Permission
}

// Target describes the user record a management action operates on.
type Target struct {
	ID   string
	Role Role
}

// HasPermission reports whether the principal may access a page. Admin-tier
// roles pass every check regardless of stored grants, so catalog growth can
// never lock out administrators behind a stale grant list.
func HasPermission(p Principal, perm Permission) bool {
	if adminTier(p.Role) {
		return true
	}
	for _, granted := range p.Permissions {
		if granted == perm {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the principal holds at least one of the
// requested permissions. The admin-tier bypass applies.
func HasAnyPermission(p Principal, perms ...Permission) bool {
	if adminTier(p.Role) {
		return true
	}
	for _, perm := range perms {
		if HasPermission(p, perm) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the principal holds every requested
// permission. The admin-tier bypass applies.
func HasAllPermissions(p Principal, perms ...Permission) bool {
	if adminTier(p.Role) {
		return true
	}
	for _, perm := range perms {
		if !HasPermission(p, perm) {
			return false
		}
	}
	return true
}
