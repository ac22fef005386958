// Package permissions manages per-user page grants and the permission
// catalog surfaced to the web client.
package permissions

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/fleetdesk/fleetdesk/internal/authz"
	"github.com/fleetdesk/fleetdesk/internal/shared"
	"github.com/fleetdesk/fleetdesk/internal/users"
)

// UserStore is the slice of the user repository grant management needs.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (users.User, error)
	UpdatePermissions(ctx context.Context, id uuid.UUID, perms []authz.Permission) error
}

// Service applies grant reads and writes under the engine's manage rules.
type Service struct {
	store UserStore
}

// NewService constructs a Service.
func NewService(store UserStore) *Service {
	return &Service{store: store}
}

// CatalogEntry is one assignable page permission with its display strings.
type CatalogEntry struct {
	Key         authz.Permission `json:"key"`
	Label       string           `json:"label"`
	Description string           `json:"description"`
}

// Catalog lists the permissions the principal may assign. Managers never
// see the management grant; handing it out would let them mint peers.
func Catalog(p authz.Principal) []CatalogEntry {
	entries := make([]CatalogEntry, 0, len(authz.AllPermissions()))
	for _, perm := range authz.AllPermissions() {
		if perm == authz.PermManagement && !p.Role.AdminTier() {
			continue
		}
		entries = append(entries, CatalogEntry{
			Key:         perm,
			Label:       perm.Label(),
			Description: perm.Description(),
		})
	}
	return entries
}

// MenuEntry is one navigation item the client renders for the principal.
type MenuEntry struct {
	Key   authz.Permission `json:"key"`
	Label string           `json:"label"`
	Path  string           `json:"path"`
}

var menuPaths = map[authz.Permission]string{
	authz.PermDashboard:      "/dashboard",
	authz.PermMap:            "/map",
	authz.PermTrackContainer: "/track",
	authz.PermDataToday:      "/data-today",
	authz.PermDrivers:        "/drivers",
	authz.PermVehicles:       "/vehicles",
	authz.PermVehiclesTail:   "/vehicles/tails",
	authz.PermContainers:     "/containers",
	authz.PermManagement:     "/management",
}

// Menu returns the navigation entries the principal can reach. Admin tier
// gets the full menu regardless of stored grants.
func Menu(p authz.Principal) []MenuEntry {
	entries := make([]MenuEntry, 0, len(authz.AllPermissions()))
	for _, perm := range authz.AllPermissions() {
		if !authz.HasPermission(p, perm) {
			continue
		}
		entries = append(entries, MenuEntry{
			Key:   perm,
			Label: perm.Label(),
			Path:  menuPaths[perm],
		})
	}
	return entries
}

// Get returns a user's stored grants. A principal may always read its own
// grants; reading another account requires manage rights over its role.
func (s *Service) Get(ctx context.Context, p authz.Principal, id uuid.UUID) ([]authz.Permission, error) {
	target, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, authz.NotFound("User not found.").Err()
		}
		return nil, err
	}
	if target.ID.String() != p.ID && !canManageGrants(p, target.Role) {
		return nil, authz.Forbidden("Permission denied. %s cannot view permissions of %s.", p.Role, target.Role).Err()
	}
	perms := target.PagePermissions
	if perms == nil {
		perms = authz.DefaultPermissions(target.Role)
	}
	return perms, nil
}

// UpdateInput carries a grant replacement request.
type UpdateInput struct {
	Permissions []string
}

// Update replaces a user's grants. Unknown keys are rejected, and only
// admin tier may hand out the management grant.
func (s *Service) Update(ctx context.Context, p authz.Principal, id uuid.UUID, input UpdateInput) ([]authz.Permission, error) {
	target, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, authz.NotFound("User not found.").Err()
		}
		return nil, err
	}
	if !canManageGrants(p, target.Role) {
		return nil, authz.Forbidden("Permission denied. %s cannot modify permissions of %s.", p.Role, target.Role).Err()
	}

	perms := make([]authz.Permission, 0, len(input.Permissions))
	seen := make(map[authz.Permission]bool, len(input.Permissions))
	for _, raw := range input.Permissions {
		perm := authz.Permission(raw)
		if !authz.ValidPermission(perm) {
			return nil, authz.BadRequest("Unknown permission %q.", raw).Err()
		}
		if perm == authz.PermManagement && !p.Role.AdminTier() {
			return nil, authz.Forbidden("Permission denied. %s cannot grant the management page.", p.Role).Err()
		}
		if seen[perm] {
			continue
		}
		seen[perm] = true
		perms = append(perms, perm)
	}

	if err := s.store.UpdatePermissions(ctx, id, perms); err != nil {
		return nil, err
	}
	return perms, nil
}

// canManageGrants mirrors the manage-role table for grant edits: admin
// tier manages everyone below it, managers manage only plain users.
func canManageGrants(p authz.Principal, targetRole authz.Role) bool {
	return authz.CanManageRole(p.Role, targetRole)
}
