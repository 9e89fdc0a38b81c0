package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// CivilDateLayout is the wire and storage format of a civil date
const CivilDateLayout = "2006-01-02"

// CivilDate is a calendar day with no time or zone attached. Attendance
// rows are bucketed by the organizational calendar day, so two instants
// map to the same CivilDate only when they fall on the same day in the
// configured zone.
type CivilDate struct {
	year  int
	month time.Month
	day   int
}

// NewCivilDate creates a civil date, normalizing out-of-range values the
// way time.Date does (e.g. Feb 30 becomes Mar 1 or 2).
func NewCivilDate(year int, month time.Month, day int) CivilDate {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return CivilDate{year: t.Year(), month: t.Month(), day: t.Day()}
}

// CivilDateOf returns the calendar day of t in loc
func CivilDateOf(t time.Time, loc *time.Location) CivilDate {
	local := t.In(loc)
	return CivilDate{year: local.Year(), month: local.Month(), day: local.Day()}
}

// ParseCivilDate parses a YYYY-MM-DD string
func ParseCivilDate(s string) (CivilDate, error) {
	t, err := time.Parse(CivilDateLayout, s)
	if err != nil {
		return CivilDate{}, fmt.Errorf("invalid civil date %q: %w", s, err)
	}
	return CivilDate{year: t.Year(), month: t.Month(), day: t.Day()}, nil
}

// MustParseCivilDate parses s and panics on error. Intended for tests and constants.
func MustParseCivilDate(s string) CivilDate {
	d, err := ParseCivilDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Year returns the year
func (d CivilDate) Year() int { return d.year }

// Month returns the month
func (d CivilDate) Month() time.Month { return d.month }

// Day returns the day of month
func (d CivilDate) Day() int { return d.day }

// IsZero reports whether d is the zero value
func (d CivilDate) IsZero() bool {
	return d.year == 0 && d.month == 0 && d.day == 0
}

// At returns the instant at the given wall clock time on d in loc
func (d CivilDate) At(hour, minute, second int, loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, hour, minute, second, 0, loc)
}

// AddDays returns d shifted by n days
func (d CivilDate) AddDays(n int) CivilDate {
	return NewCivilDate(d.year, d.month, d.day+n)
}

// Before reports whether d is strictly earlier than other
func (d CivilDate) Before(other CivilDate) bool {
	return d.Compare(other) < 0
}

// After reports whether d is strictly later than other
func (d CivilDate) After(other CivilDate) bool {
	return d.Compare(other) > 0
}

// Equal reports whether d and other are the same day
func (d CivilDate) Equal(other CivilDate) bool {
	return d == other
}

// Compare returns -1, 0 or +1
func (d CivilDate) Compare(other CivilDate) int {
	switch {
	case d.year != other.year:
		return cmpInt(d.year, other.year)
	case d.month != other.month:
		return cmpInt(int(d.month), int(other.month))
	default:
		return cmpInt(d.day, other.day)
	}
}

// YearMonth returns the month containing d
func (d CivilDate) YearMonth() YearMonth {
	return YearMonth{year: d.year, month: d.month}
}

// String formats d as YYYY-MM-DD
func (d CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// MarshalJSON encodes d as a YYYY-MM-DD string
func (d CivilDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a YYYY-MM-DD string
func (d *CivilDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = CivilDate{}
		return nil
	}
	parsed, err := ParseCivilDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer. Dates are written as YYYY-MM-DD text,
// which both PostgreSQL DATE columns and SQLite accept.
func (d CivilDate) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// GormDataType maps CivilDate to a DATE column
func (CivilDate) GormDataType() string {
	return "date"
}

// Scan implements sql.Scanner
func (d *CivilDate) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*d = CivilDate{}
		return nil
	case time.Time:
		*d = CivilDate{year: v.Year(), month: v.Month(), day: v.Day()}
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CivilDate", value)
	}
}

func (d *CivilDate) scanString(s string) error {
	if len(s) > len(CivilDateLayout) {
		s = s[:len(CivilDateLayout)]
	}
	parsed, err := ParseCivilDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
