package utils

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"
const clockLayout = "15:04"

// CustomDate is a calendar date serialised as "YYYY-MM-DD".
type CustomDate struct {
	time.Time
}

func NewDate(t time.Time) CustomDate {
	y, m, d := t.Date()
	return CustomDate{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (CustomDate, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return CustomDate{}, fmt.Errorf("invalid date format: %s", s)
	}
	return CustomDate{t}, nil
}

// Today returns the current calendar date in loc.
func Today(loc *time.Location) CustomDate {
	return NewDate(time.Now().In(loc))
}

func (d *CustomDate) UnmarshalJSON(data []byte) error {
	str := string(data)
	if str == `null` || str == `""` {
		*d = CustomDate{}
		return nil
	}
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}
	// accept full ISO timestamps from browsers
	if len(str) > len(dateLayout) {
		if t, err := time.Parse(time.RFC3339, str); err == nil {
			*d = NewDate(t)
			return nil
		}
	}
	parsed, err := ParseDate(str)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d CustomDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d CustomDate) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Time.Format(dateLayout), nil
}

func (d *CustomDate) Scan(value interface{}) error {
	if value == nil {
		*d = CustomDate{}
		return nil
	}

	switch v := value.(type) {
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("unsupported scan type for CustomDate: %T", value)
	}
}

func (d *CustomDate) scanString(s string) error {
	if len(s) >= len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("cannot parse date string: %v", err)
	}
	*d = CustomDate{t}
	return nil
}

func (d CustomDate) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d CustomDate) AddDays(n int) CustomDate {
	return CustomDate{d.Time.AddDate(0, 0, n)}
}

func (d CustomDate) Before(other CustomDate) bool {
	return d.Time.Before(other.Time)
}

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time format: %s", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func IsValidClock(s string) bool {
	_, err := ParseClock(s)
	return err == nil
}

// HoursBetween returns the duration between two clock times in hours.
func HoursBetween(start, end string) (float64, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	if e <= s {
		return 0, fmt.Errorf("end time %s is not after start time %s", end, start)
	}
	return float64(e-s) / 60, nil
}

// ClockRangesOverlap reports whether [aStart,aEnd) and [bStart,bEnd) intersect.
// Unparseable ranges are treated as covering the whole day.
func ClockRangesOverlap(aStart, aEnd, bStart, bEnd string) bool {
	as, err1 := ParseClock(aStart)
	ae, err2 := ParseClock(aEnd)
	bs, err3 := ParseClock(bStart)
	be, err4 := ParseClock(bEnd)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return true
	}
	return as < be && bs < ae
}
