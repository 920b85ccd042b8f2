package availability

import (
	"charterbook/internal/entities"

	"cloud.google.com/go/civil"
)

// Selection is the date and slot a customer has picked. It is a value; every
// change goes through Reduce and yields a new Selection.
type Selection struct {
	Date civil.Date
	Slot entities.SlotType
}

// Action is a change requested against a Selection.
type Action interface {
	apply(s Selection, snap Snapshot) Selection
}

type SelectDate struct{ Date civil.Date }

type SelectSlot struct{ Slot entities.SlotType }

type ResetSelection struct{}

func (a SelectDate) apply(s Selection, _ Snapshot) Selection {
	if s.Date == a.Date {
		return s
	}
	return Selection{Date: a.Date}
}

// A slot can only be picked once a date is set and only while the snapshot
// reports it available.
func (a SelectSlot) apply(s Selection, snap Snapshot) Selection {
	if !s.HasDate() || !ResolveDate(snap, s.Date).Available(a.Slot) {
		return s
	}
	s.Slot = a.Slot
	return s
}

func (ResetSelection) apply(Selection, Snapshot) Selection {
	return Selection{}
}

// Reduce applies action to s using snap as the known availability.
func (s Selection) Reduce(action Action, snap Snapshot) Selection {
	return action.apply(s, snap)
}

func (s Selection) HasDate() bool {
	return s.Date != (civil.Date{})
}

// Ready reports whether the selection may be submitted against snap.
func (s Selection) Ready(snap Snapshot) bool {
	return s.HasDate() && s.Slot.Valid() && ResolveDate(snap, s.Date).Available(s.Slot)
}
