package entities

import (
	"time"

	"cloud.google.com/go/civil"
)

type SlotType string

const (
	SlotAM   SlotType = "AM"
	SlotPM   SlotType = "PM"
	SlotFull SlotType = "FULL"
)

// SlotTypes lists every bookable slot in display order.
var SlotTypes = []SlotType{SlotAM, SlotPM, SlotFull}

func (s SlotType) Valid() bool {
	switch s {
	case SlotAM, SlotPM, SlotFull:
		return true
	}
	return false
}

type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCanceled  BookingStatus = "canceled"
)

func (s BookingStatus) Valid() bool {
	return s == StatusConfirmed || s == StatusCanceled
}

type Booking struct {
	ID        string        `json:"id"`
	Date      civil.Date    `json:"date"`
	SlotType  SlotType      `json:"slot_type"`
	Name      string        `json:"name"`
	Phone     string        `json:"phone"`
	Email     string        `json:"email"`
	PartySize int           `json:"party_size"`
	Notes     string        `json:"notes,omitempty"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// BookingFilter narrows admin listings. Zero fields do not filter.
type BookingFilter struct {
	Date   civil.Date
	Status BookingStatus
}
