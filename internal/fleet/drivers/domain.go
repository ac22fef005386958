// Package drivers manages the driver roster.
package drivers

import (
	"time"

	"github.com/google/uuid"
)

const defaultProfileImg = "https://res.cloudinary.com/dboau6axv/image/upload/v1735641179/qa9dfyxn8spwm0nwtako.jpg"

// Driver is one person on the roster. Names are usually Thai script, so
// list ordering goes through a Thai collator rather than byte order.
type Driver struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	PhoneNumber string    `json:"phoneNumber"`
	Position    string    `json:"position"`
	Company     string    `json:"company"`
	Detail      string    `json:"detail"`
	ProfileImg  string    `json:"profile_img"`
	CreatedBy   uuid.UUID `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
