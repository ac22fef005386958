// Package tails manages trailer units.
package tails

import (
	"time"

	"github.com/google/uuid"
)

// Tail is a trailer unit identified by its license plate.
type Tail struct {
	ID           uuid.UUID `json:"id"`
	LicensePlate string    `json:"licensePlate"`
	CompanyName  string    `json:"companyName"`
	CreatedBy    uuid.UUID `json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
