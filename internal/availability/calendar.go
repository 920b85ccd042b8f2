package availability

import (
	"time"

	"charterbook/internal/entities"

	"cloud.google.com/go/civil"
)

// Bounds restricts the days a customer may pick. A zero bound is open, so the
// zero Bounds (used by the admin calendar) allows every day.
type Bounds struct {
	Earliest civil.Date
	Latest   civil.Date
}

// CustomerBounds allows today through today plus horizonMonths.
func CustomerBounds(today civil.Date, horizonMonths int) Bounds {
	return Bounds{Earliest: today, Latest: AddMonths(today, horizonMonths)}
}

func (b Bounds) Contains(d civil.Date) bool {
	if b.Earliest != (civil.Date{}) && d.Before(b.Earliest) {
		return false
	}
	if b.Latest != (civil.Date{}) && d.After(b.Latest) {
		return false
	}
	return true
}

// Classify maps a day's availability to the marker shown on the calendar.
func Classify(a entities.SlotAvailability) entities.DayState {
	switch {
	case !a.AM && !a.PM && !a.FULL:
		return entities.DayFullyBooked
	case !a.AM:
		return entities.DayAMMarked
	case !a.PM:
		return entities.DayPMMarked
	}
	return entities.DayOpen
}

// Calendar classifies every day in [from, to]. Days outside bounds and fully
// booked days are disabled for selection.
func Calendar(s Snapshot, from, to civil.Date, bounds Bounds) []entities.CalendarDay {
	if to.Before(from) {
		return nil
	}
	days := make([]entities.CalendarDay, 0, to.DaysSince(from)+1)
	for d := from; !d.After(to); d = d.AddDays(1) {
		avail := ResolveDate(s, d)
		state := Classify(avail)
		days = append(days, entities.CalendarDay{
			Date:         d,
			State:        state,
			Availability: avail,
			Disabled:     state == entities.DayFullyBooked || !bounds.Contains(d),
		})
	}
	return days
}

// AddMonths moves d by n calendar months, clamping the day to the length of
// the target month (Jan 31 + 1 month is Feb 28 or 29).
func AddMonths(d civil.Date, n int) civil.Date {
	first := time.Date(d.Year, d.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	day := d.Day
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return civil.Date{Year: first.Year(), Month: first.Month(), Day: day}
}

// StartOfMonth returns the first day of d's month.
func StartOfMonth(d civil.Date) civil.Date {
	return civil.Date{Year: d.Year, Month: d.Month, Day: 1}
}

// EndOfMonth returns the last day of d's month.
func EndOfMonth(d civil.Date) civil.Date {
	return civil.Date{Year: d.Year, Month: d.Month, Day: daysIn(d.Year, d.Month)}
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
