package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/fleetdesk/fleetdesk/internal/authz"
)

// defaultProfileImg is assigned to accounts created without an avatar.
const defaultProfileImg = "https://res.cloudinary.com/dboau6axv/image/upload/v1735641179/qa9dfyxn8spwm0nwtako.jpg"

// User represents a back-office account.
type User struct {
	ID              uuid.UUID          `json:"id"`
	Email           string             `json:"email"`
	PasswordHash    string             `json:"-"`
	FirstName       string             `json:"firstName"`
	LastName        string             `json:"lastName"`
	Role            authz.Role         `json:"role"`
	PagePermissions []authz.Permission `json:"pagePermissions"`
	ProfileImg      string             `json:"profile_img"`
	IsActive        bool               `json:"isActive"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// Principal maps the account onto the authorization engine's actor shape.
func (u User) Principal() authz.Principal {
	return authz.Principal{
		ID:          u.ID.String(),
		Role:        u.Role,
		Permissions: u.PagePermissions,
	}
}

// Target maps the account onto the authorization engine's target shape.
func (u User) Target() *authz.Target {
	return &authz.Target{ID: u.ID.String(), Role: u.Role}
}
