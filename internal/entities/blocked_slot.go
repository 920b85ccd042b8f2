package entities

import (
	"time"

	"cloud.google.com/go/civil"
)

// BlockedSlot closes a date/slot without a customer booking.
type BlockedSlot struct {
	ID        string     `json:"id"`
	Date      civil.Date `json:"date"`
	SlotType  SlotType   `json:"slot_type"`
	Reason    string     `json:"reason,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// DateRange is an inclusive range of calendar days. A zero bound is open.
type DateRange struct {
	From civil.Date
	To   civil.Date
}
