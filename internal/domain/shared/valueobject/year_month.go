package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// YearMonthLayout is the storage format of a payroll month
const YearMonthLayout = "2006-01"

// YearMonth identifies a calendar month, e.g. the month a salary accrues for.
// Its string form sorts chronologically.
type YearMonth struct {
	year  int
	month time.Month
}

// NewYearMonth creates a YearMonth
func NewYearMonth(year int, month time.Month) YearMonth {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return YearMonth{year: t.Year(), month: t.Month()}
}

// ParseYearMonth parses a YYYY-MM string
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse(YearMonthLayout, s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return YearMonth{year: t.Year(), month: t.Month()}, nil
}

// Year returns the year
func (m YearMonth) Year() int { return m.year }

// Month returns the month
func (m YearMonth) Month() time.Month { return m.month }

// IsZero reports whether m is unset
func (m YearMonth) IsZero() bool { return m.year == 0 && m.month == 0 }

// FirstDay returns the first civil day of the month
func (m YearMonth) FirstDay() CivilDate {
	return NewCivilDate(m.year, m.month, 1)
}

// LastDay returns the last civil day of the month
func (m YearMonth) LastDay() CivilDate {
	return NewCivilDate(m.year, m.month+1, 0)
}

// Before reports whether m is strictly earlier than other
func (m YearMonth) Before(other YearMonth) bool {
	if m.year != other.year {
		return m.year < other.year
	}
	return m.month < other.month
}

// String formats m as YYYY-MM
func (m YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", m.year, int(m.month))
}

// MarshalJSON encodes m as YYYY-MM
func (m YearMonth) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON decodes a YYYY-MM string
func (m *YearMonth) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseYearMonth(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer
func (m YearMonth) Value() (driver.Value, error) {
	if m.IsZero() {
		return nil, nil
	}
	return m.String(), nil
}

// GormDataType maps YearMonth to a short text column
func (YearMonth) GormDataType() string {
	return "varchar(7)"
}

// Scan implements sql.Scanner
func (m *YearMonth) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*m = YearMonth{}
		return nil
	case string:
		parsed, err := ParseYearMonth(v)
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	case []byte:
		return m.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into YearMonth", value)
	}
}
