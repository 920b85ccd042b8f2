package entities

import "cloud.google.com/go/civil"

// SlotAvailability reports which slots of a single day can still be booked.
type SlotAvailability struct {
	AM   bool `json:"AM"`
	PM   bool `json:"PM"`
	FULL bool `json:"FULL"`
}

func (a SlotAvailability) Available(slot SlotType) bool {
	switch slot {
	case SlotAM:
		return a.AM
	case SlotPM:
		return a.PM
	case SlotFull:
		return a.FULL
	}
	return false
}

type DayState string

const (
	DayOpen        DayState = "open"
	DayAMMarked    DayState = "am-marked"
	DayPMMarked    DayState = "pm-marked"
	DayFullyBooked DayState = "fully-booked"
)

type CalendarDay struct {
	Date         civil.Date       `json:"date"`
	State        DayState         `json:"state"`
	Availability SlotAvailability `json:"availability"`
	Disabled     bool             `json:"disabled"`
}
