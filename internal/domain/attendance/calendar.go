package attendance

import (
	"fmt"
	"time"

	"github.com/hrms/backend/internal/domain/shared/valueobject"
)

// DefaultTimezone is the organizational zone used when none is configured
const DefaultTimezone = "Asia/Kolkata"

// Wall clock time at which an abandoned session is punched out on its own day
const (
	AutoCloseHour   = 23
	AutoCloseMinute = 55
)

// Calendar buckets instants into organizational calendar days. Every user
// shares the same day boundary regardless of where they punch in from.
type Calendar struct {
	loc *time.Location
}

// NewCalendar creates a calendar for the given IANA zone name
func NewCalendar(zone string) (*Calendar, error) {
	if zone == "" {
		zone = DefaultTimezone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", zone, err)
	}
	return &Calendar{loc: loc}, nil
}

// NewCalendarInLocation creates a calendar from an already loaded location
func NewCalendarInLocation(loc *time.Location) *Calendar {
	return &Calendar{loc: loc}
}

// Location returns the calendar's zone
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// DateOf returns the civil date of t
func (c *Calendar) DateOf(t time.Time) valueobject.CivilDate {
	return valueobject.CivilDateOf(t, c.loc)
}

// AutoCloseInstant returns 23:55:00 local time on the given day
func (c *Calendar) AutoCloseInstant(day valueobject.CivilDate) time.Time {
	return day.At(AutoCloseHour, AutoCloseMinute, 0, c.loc)
}

// StartOf returns midnight at the start of day in the calendar's zone
func (c *Calendar) StartOf(day valueobject.CivilDate) time.Time {
	return day.At(0, 0, 0, c.loc)
}
