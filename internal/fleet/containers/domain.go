// Package containers manages the shipping container registry.
package containers

import (
	"time"

	"github.com/google/uuid"
)

// Container is a registered shipping container.
type Container struct {
	ID              uuid.UUID `json:"id"`
	ContainerNumber string    `json:"containerNumber"`
	CompanyName     string    `json:"companyName"`
	ContainerSize   string    `json:"containerSize"`
	CreatedBy       uuid.UUID `json:"createdBy"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
