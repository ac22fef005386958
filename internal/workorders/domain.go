// Package workorders manages haulage work orders.
package workorders

import (
	"time"

	"github.com/google/uuid"
)

// WorkOrder is a dispatch order pairing a driver with a head, tail and
// container for one haul. Vehicle references are denormalized plate and
// container numbers, copied at issue time so later fleet edits do not
// rewrite history.
type WorkOrder struct {
	ID              uuid.UUID  `json:"id"`
	IssueDate       time.Time  `json:"issueDate"`
	WorkOrderNumber string     `json:"workOrderNumber"`
	Product         string     `json:"product"`
	DriverName      string     `json:"driverName"`
	DriverPhone     string     `json:"driverPhone"`
	HeadPlate       string     `json:"headPlate"`
	TailPlate       string     `json:"tailPlate"`
	ContainerNumber string     `json:"containerNumber"`
	CompanyName     string     `json:"companyName"`
	Description     string     `json:"description"`
	CreatedBy       uuid.UUID  `json:"createdBy"`
	UpdatedBy       *uuid.UUID `json:"updatedBy,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}
