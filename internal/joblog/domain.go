// Package joblog manages the daily gate in/out log.
package joblog

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one gate movement: a truck entering a station and, once it
// leaves, the matching exit time.
type Entry struct {
	ID               uuid.UUID  `json:"id"`
	DatetimeIn       time.Time  `json:"datetime_in"`
	DatetimeOut      *time.Time `json:"datetime_out,omitempty"`
	DriverName       string     `json:"driver_name"`
	HeadRegistration string     `json:"head_registration"`
	TailRegistration string     `json:"tail_registration"`
	ContainerNo      string     `json:"container_no"`
	StationIn        string     `json:"station_in"`
	StationOut       string     `json:"station_out,omitempty"`
	CompanyName      string     `json:"companyname"`
	CreatedBy        uuid.UUID  `json:"createdBy"`
	UpdatedBy        *uuid.UUID `json:"updatedBy,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// ListFilters narrows the gate log listing. From and To are calendar
// dates; both unset means no date bound, one set bounds a single day.
type ListFilters struct {
	DriverName       string
	ContainerNo      string
	HeadRegistration string
	From             string
	To               string
}
