package availability

import (
	"testing"
	"time"

	"charterbook/internal/entities"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func TestSelection_Reduce(t *testing.T) {
	d := civil.Date{Year: 2025, Month: 7, Day: 10}
	other := d.AddDays(1)
	snap := Snapshot{Bookings: []entities.Booking{booking(d, entities.SlotAM, entities.StatusConfirmed)}}

	s := Selection{}.Reduce(SelectSlot{Slot: entities.SlotPM}, snap)
	assert.Equal(t, Selection{}, s, "slot needs a date first")

	s = s.Reduce(SelectDate{Date: d}, snap)
	assert.Equal(t, d, s.Date)

	s = s.Reduce(SelectSlot{Slot: entities.SlotAM}, snap)
	assert.Empty(t, s.Slot, "AM is taken")
	assert.False(t, s.Ready(snap))

	s = s.Reduce(SelectSlot{Slot: entities.SlotPM}, snap)
	assert.Equal(t, entities.SlotPM, s.Slot)
	assert.True(t, s.Ready(snap))

	same := s.Reduce(SelectDate{Date: d}, snap)
	assert.Equal(t, s, same, "reselecting the same date keeps the slot")

	moved := s.Reduce(SelectDate{Date: other}, snap)
	assert.Equal(t, Selection{Date: other}, moved)
	assert.Equal(t, entities.SlotPM, s.Slot, "original value is untouched")

	assert.Equal(t, Selection{}, s.Reduce(ResetSelection{}, snap))
}

func TestSelection_ReadyGoesStaleWithNewSnapshot(t *testing.T) {
	d := civil.Date{Year: 2025, Month: 7, Day: 10}
	s := Selection{}.
		Reduce(SelectDate{Date: d}, Snapshot{}).
		Reduce(SelectSlot{Slot: entities.SlotFull}, Snapshot{})
	assert.True(t, s.Ready(Snapshot{}))

	fresh := Snapshot{Blocks: []entities.BlockedSlot{block(d, entities.SlotPM)}}
	assert.False(t, s.Ready(fresh))
}

func TestClock_TodayUsesLocation(t *testing.T) {
	instant := time.Date(2025, 7, 10, 2, 30, 0, 0, time.UTC)
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skip("tzdata not available")
	}

	assert.Equal(t, civil.Date{Year: 2025, Month: 7, Day: 10}, NewFixedClock(instant, time.UTC).Today())
	assert.Equal(t, civil.Date{Year: 2025, Month: 7, Day: 9}, NewFixedClock(instant, la).Today())
}
