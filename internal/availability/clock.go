package availability

import (
	"time"

	"cloud.google.com/go/civil"
)

// Clock derives "today" as a calendar day in a fixed location. Which location
// counts as the business's local day is a deployment setting.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

func NewClock(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.Local
	}
	return &Clock{loc: loc, now: time.Now}
}

// NewFixedClock always reports now; used by tests and replays.
func NewFixedClock(now time.Time, loc *time.Location) *Clock {
	c := NewClock(loc)
	c.now = func() time.Time { return now }
	return c
}

func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

func (c *Clock) Today() civil.Date {
	return civil.DateOf(c.Now())
}

func (c *Clock) Location() *time.Location {
	return c.loc
}
