package authz

import "fmt"

// ErrorKind classifies a deny so HTTP callers can map it to a status code.
type ErrorKind string

// Deny kinds. Callers map forbidden→403, bad_request→400, not_found→404.
const (
	KindForbidden  ErrorKind = "forbidden"
	KindBadRequest ErrorKind = "bad_request"
	KindNotFound   ErrorKind = "not_found"
)

// Decision is the outcome of an authorization check. All deny messages are
// safe to surface to the end user.
type Decision struct {
	Allowed bool      `json:"allowed"`
	Kind    ErrorKind `json:"errorKind,omitempty"`
	Message string    `json:"message,omitempty"`
}

// Allow returns a permitting decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Forbidden returns a deny for an actor lacking rights.
func Forbidden(format string, args ...any) Decision {
	return Decision{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// BadRequest returns a deny for a malformed or self-referential request.
func BadRequest(format string, args ...any) Decision {
	return Decision{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns a deny for a missing target.
func NotFound(format string, args ...any) Decision {
	return Decision{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// DeniedError adapts a deny into the error chain of a service call so HTTP
// handlers can recover the kind and message with errors.As.
type DeniedError struct {
	Decision Decision
}

func (e *DeniedError) Error() string {
	return e.Decision.Message
}

// Err returns nil for an allowing decision, or a *DeniedError otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &DeniedError{Decision: d}
}

// Policy holds the knobs the user-lifecycle rules evaluate under.
//
// SuperAdminSelfDemote settles a deliberately exposed ambiguity: whether a
// super admin may change their own role. The back office's revisions never
// agreed on it, so both behaviors ship as named policies and the integrator
// picks one at composition time.
type Policy struct {
	// SuperAdminSelfDemote exempts super admins from the self-demotion guard.
	SuperAdminSelfDemote bool
}

// DefaultPolicy exempts super admins from the self-demotion guard.
func DefaultPolicy() Policy {
	return Policy{SuperAdminSelfDemote: true}
}

// StrictPolicy applies the self-demotion guard to every admin-tier role,
// super admins included.
func StrictPolicy() Policy {
	return Policy{SuperAdminSelfDemote: false}
}

// AuthorizeCreate decides whether principal may create an account holding
// requestedRole. emailInUse carries the persistence layer's uniqueness check;
// the engine itself performs no I/O.
func (pol Policy) AuthorizeCreate(p Principal, requestedRole any, emailInUse bool) Decision {
	if !managementTier(p.Role) {
		return Forbidden("Permission denied. %s cannot create users.", roleWord(p.Role))
	}
	role := ParseRole(requestedRole)
	if role == "" {
		return BadRequest("Invalid role %q.", fmt.Sprint(requestedRole))
	}
	if !CanManageRole(p.Role, role) {
		return Forbidden("Permission denied. %s cannot create %s.", roleWord(p.Role), role)
	}
	if emailInUse {
		return BadRequest("อีเมลนี้ มีผู้ใช้อยู่ในระบบแล้ว")
	}
	return Allow()
}

// AuthorizeRoleChange decides whether principal may change target's role to
// requestedRole. A nil target resolves to not_found before any role
// comparison.
func (pol Policy) AuthorizeRoleChange(p Principal, target *Target, requestedRole any) Decision {
	if target == nil {
		return NotFound("User not found.")
	}
	if !adminTier(p.Role) {
		return Forbidden("Permission denied. %s cannot change roles.", roleWord(p.Role))
	}
	role := ParseRole(requestedRole)
	if role == "" {
		return BadRequest("Invalid role %q.", fmt.Sprint(requestedRole))
	}
	if p.ID == target.ID && role != p.Role {
		if p.Role == RoleAdmin {
			return BadRequest("Permission denied. admin cannot strip their own admin role.")
		}
		if p.Role == RoleSuperAdmin && !pol.SuperAdminSelfDemote {
			return BadRequest("Permission denied. super admin cannot strip their own role.")
		}
	}
	if p.Role == RoleAdmin && target.Role == RoleAdmin && role != RoleAdmin && p.ID != target.ID {
		return Forbidden("Permission denied. admin cannot demote admin.")
	}
	if !CanManageRole(p.Role, role) {
		return Forbidden("Permission denied. %s cannot assign %s.", roleWord(p.Role), role)
	}
	return Allow()
}

// AuthorizeProfileUpdate decides whether principal may update target's
// non-role fields. Self-service is always permitted; anyone else needs a
// management-tier role that can manage the target's current role. An email
// change additionally requires uniqueness, self-service included.
func (pol Policy) AuthorizeProfileUpdate(p Principal, target *Target, emailChanged, emailInUse bool) Decision {
	if target == nil {
		return NotFound("User not found.")
	}
	if p.ID != target.ID {
		if !managementTier(p.Role) {
			return Forbidden("Permission denied. %s cannot update users.", roleWord(p.Role))
		}
		if !CanManageRole(p.Role, target.Role) {
			return Forbidden("Permission denied. %s cannot update %s.", roleWord(p.Role), target.Role)
		}
	}
	if emailChanged && emailInUse {
		return BadRequest("อีเมลนี้ มีผู้ใช้อยู่ในระบบแล้ว")
	}
	return Allow()
}

// AuthorizeDelete decides whether principal may delete target. Managers are
// excluded from delete entirely, and self-deletion is denied for every role
// so the system can never be stranded without administrative access.
func (pol Policy) AuthorizeDelete(p Principal, target *Target) Decision {
	if target == nil {
		return NotFound("User not found.")
	}
	if !adminTier(p.Role) {
		return Forbidden("Permission denied. %s cannot delete %s.", roleWord(p.Role), roleWord(target.Role))
	}
	if p.ID == target.ID {
		return BadRequest("Cannot delete your own account.")
	}
	if !CanManageRole(p.Role, target.Role) {
		return Forbidden("Permission denied. %s cannot delete %s.", roleWord(p.Role), roleWord(target.Role))
	}
	return Allow()
}

// AuthorizeSetStatus decides whether principal may activate or deactivate
// target. Self-deactivation is denied; reactivating oneself is moot but
// harmless, so only the deactivate direction is guarded.
func (pol Policy) AuthorizeSetStatus(p Principal, target *Target, requestedActive bool) Decision {
	if target == nil {
		return NotFound("User not found.")
	}
	if !adminTier(p.Role) {
		return Forbidden("Permission denied. %s cannot change user status.", roleWord(p.Role))
	}
	if p.ID == target.ID && !requestedActive {
		return BadRequest("Cannot deactivate your own account.")
	}
	return Allow()
}

// roleWord renders a role for deny messages, keeping garbage input readable.
func roleWord(role Role) string {
	if role == "" {
		return "unknown role"
	}
	return string(role)
}
