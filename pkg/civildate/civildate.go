// Package civildate implements the calendar-date value the attendance ledger
// keys entries by. A Date has no time-of-day and no location: 2024-01-15 is
// the same day everywhere, which is exactly what the one-entry-per-day rule
// needs. Parsing is strict — only the canonical YYYY-MM-DD form is accepted,
// and the day must exist on the real calendar.
package civildate

import (
	"fmt"
	"time"
)

// Date is a calendar day.
type Date struct {
	Year  int
	Month int
	Day   int
}

// Parse converts a YYYY-MM-DD string to a Date. It rejects anything that is
// not exactly that shape, months outside 1-12, and days that do not exist in
// the given month (leap years included).
func Parse(raw string) (Date, error) {
	if len(raw) != 10 || raw[4] != '-' || raw[7] != '-' {
		return Date{}, fmt.Errorf("date %q is not in YYYY-MM-DD form", raw)
	}
	year, err := atoiField(raw[0:4], "year")
	if err != nil {
		return Date{}, err
	}
	month, err := atoiField(raw[5:7], "month")
	if err != nil {
		return Date{}, err
	}
	day, err := atoiField(raw[8:10], "day")
	if err != nil {
		return Date{}, err
	}
	if year == 0 {
		return Date{}, fmt.Errorf("year 0000 is out of range")
	}
	if month < 1 || month > 12 {
		return Date{}, fmt.Errorf("month %02d is out of range", month)
	}
	if day < 1 || day > daysIn(year, month) {
		return Date{}, fmt.Errorf("day %02d does not exist in %04d-%02d", day, year, month)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level fixtures.
func MustParse(raw string) Date {
	d, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return d
}

// FromTime truncates t to its calendar day in t's location.
func FromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// Today returns the current calendar day in local time.
func Today() Date {
	return FromTime(time.Now())
}

// String renders the canonical zero-padded YYYY-MM-DD form.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func atoiField(s, name string) (int, error) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("%s %q contains a non-digit", name, s)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

func daysIn(year, month int) int {
	switch month {
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeap(year) {
			return 29
		}
		return 28
	default:
		return 31
	}
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
