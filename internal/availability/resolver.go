// Package availability derives which slots of a day remain bookable from the
// confirmed bookings and admin blocks recorded for it.
package availability

import (
	"charterbook/internal/entities"

	"cloud.google.com/go/civil"
)

// Snapshot is the set of records availability is computed from, usually
// loaded for a range of dates.
type Snapshot struct {
	Bookings []entities.Booking     `json:"bookings"`
	Blocks   []entities.BlockedSlot `json:"blocks"`
}

// Resolve returns the slot availability of a single day. Both inputs must
// already be restricted to that day. Bookings that are not confirmed are
// ignored. A FULL entry closes the whole day; an AM or PM entry closes its
// half and the FULL slot.
func Resolve(bookings []entities.Booking, blocks []entities.BlockedSlot) entities.SlotAvailability {
	var am, pm, full bool
	mark := func(slot entities.SlotType) {
		switch slot {
		case entities.SlotAM:
			am = true
		case entities.SlotPM:
			pm = true
		case entities.SlotFull:
			full = true
		}
	}

	for _, b := range bookings {
		if b.Status != entities.StatusConfirmed {
			continue
		}
		mark(b.SlotType)
	}
	for _, b := range blocks {
		mark(b.SlotType)
	}

	if full {
		return entities.SlotAvailability{}
	}
	return entities.SlotAvailability{
		AM:   !am,
		PM:   !pm,
		FULL: !am && !pm,
	}
}

// ForDate returns the bookings and blocks of the snapshot that fall on date.
func (s Snapshot) ForDate(date civil.Date) ([]entities.Booking, []entities.BlockedSlot) {
	var bookings []entities.Booking
	for _, b := range s.Bookings {
		if b.Date == date {
			bookings = append(bookings, b)
		}
	}
	var blocks []entities.BlockedSlot
	for _, b := range s.Blocks {
		if b.Date == date {
			blocks = append(blocks, b)
		}
	}
	return bookings, blocks
}

// ResolveDate resolves the availability of date from the snapshot.
func ResolveDate(s Snapshot, date civil.Date) entities.SlotAvailability {
	return Resolve(s.ForDate(date))
}
