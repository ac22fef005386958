// Package heads manages truck head units.
package heads

import (
	"time"

	"github.com/google/uuid"
)

// Head is a tractor unit identified by its license plate.
type Head struct {
	ID           uuid.UUID `json:"id"`
	LicensePlate string    `json:"licensePlate"`
	CompanyName  string    `json:"companyName"`
	CreatedBy    uuid.UUID `json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
