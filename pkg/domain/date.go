package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	dErrors "studiogate/pkg/domain-errors"
)

// Date is a calendar day with no time-of-day or zone component. All package
// windows and class dates are compared at day granularity; deriving them from
// instant subtraction would silently shift boundary days, so arithmetic here
// works on the date components only.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a strict YYYY-MM-DD calendar date. Components are parsed
// explicitly; locale-dependent or instant-based parsing is deliberately not
// used at this boundary.
func ParseDate(raw string) (Date, error) {
	parts := strings.Split(raw, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return Date{}, dErrors.New(dErrors.CodeInvalidInput, "malformed date: want YYYY-MM-DD, got "+strconv.Quote(raw))
	}

	year, err := parseComponent(parts[0])
	if err != nil {
		return Date{}, dErrors.New(dErrors.CodeInvalidInput, "malformed date: non-numeric year in "+strconv.Quote(raw))
	}
	month, err := parseComponent(parts[1])
	if err != nil {
		return Date{}, dErrors.New(dErrors.CodeInvalidInput, "malformed date: non-numeric month in "+strconv.Quote(raw))
	}
	day, err := parseComponent(parts[2])
	if err != nil {
		return Date{}, dErrors.New(dErrors.CodeInvalidInput, "malformed date: non-numeric day in "+strconv.Quote(raw))
	}

	d := Date{Year: year, Month: time.Month(month), Day: day}
	if !d.isCalendarValid() {
		return Date{}, dErrors.New(dErrors.CodeInvalidInput, "malformed date: out-of-range components in "+strconv.Quote(raw))
	}
	return d, nil
}

func parseComponent(s string) (int, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-numeric component %q", s)
		}
	}
	return strconv.Atoi(s)
}

// DateOf truncates an instant to the calendar day in the instant's own
// location. Callers choose the frame once (the studio's local zone) and stay
// in it.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d Date) isCalendarValid() bool {
	if d.Month < time.January || d.Month > time.December || d.Day < 1 || d.Day > 31 {
		return false
	}
	// time.Date normalizes overflow (Feb 30 -> Mar 2); a round-trip catches it.
	t := d.asTime()
	y, m, day := t.Date()
	return y == d.Year && m == d.Month && day == d.Day
}

// asTime pins the components to midnight UTC purely for arithmetic. UTC has
// no DST transitions, so day deltas stay exact.
func (d Date) asTime() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the calendar date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.asTime().AddDate(0, 0, n))
}

// DaysUntil returns the whole-day count from d to other; negative when other
// precedes d.
func (d Date) DaysUntil(other Date) int {
	return int(other.asTime().Sub(d.asTime()) / (24 * time.Hour))
}

func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

func (d Date) Equal(other Date) bool { return d.Compare(other) == 0 }

// Compare orders two dates: -1 when d precedes other, 0 when equal, 1 after.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return compareInt(d.Year, other.Year)
	case d.Month != other.Month:
		return compareInt(int(d.Month), int(other.Month))
	default:
		return compareInt(d.Day, other.Day)
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalJSON encodes the date in the YYYY-MM-DD boundary form.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

// UnmarshalJSON decodes the strict YYYY-MM-DD boundary form.
func (d *Date) UnmarshalJSON(data []byte) error {
	raw, err := strconv.Unquote(string(data))
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "malformed date: not a JSON string")
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
