// Package date provides a day-granularity date value used as the key for
// every snapshot table and every derived series.
package date

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateFormat is the canonical ISO-8601 form used everywhere a date is
// written out.
const DateFormat = "2006-01-02"

// readDateFormats are the accepted input representations, tried in order.
// The first is a permissive ISO form (allows single-digit month/day), the
// rest are day-first locale forms as they appear in upstream spreadsheets.
var readDateFormats = []string{
	"2006-1-2",
	"2/1/2006",
	"2.1.2006",
	"2 January 2006",
}

// Date represents a date with day-level granularity.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Year returns the year of the date.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.time().Month() }

// Day returns the day of the month.
func (d Date) Day() int { return d.d }

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Add returns a new Date with the given number of days added.
func (d Date) Add(i int) Date { return New(d.y, d.m, d.d+i) }

// Today returns the current date.
func Today() Date { return New(time.Now().Date()) }

// String formats the date in its canonical ISO form.
func (d Date) String() string { return d.time().Format(DateFormat) }

// Parse parses a Date from a string. It accepts the canonical ISO form
// (leniently, "2025-7-1" works) and common day-first locale forms. Any
// other input is an error, never a silently-zero date.
func Parse(str string) (Date, error) {
	for _, format := range readDateFormats {
		if on, err := time.Parse(format, str); err == nil {
			return New(on.Date()), nil
		}
	}
	return Date{}, fmt.Errorf("invalid date %q: want ISO %q or a day-first locale form", str, DateFormat)
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// UnmarshalJSON implements the json specific way to unmarshal a date from a json string.
func (j *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	d, err := Parse(str)
	if err != nil {
		return err
	}
	*j = d
	return nil
}

// MarshalJSON writes the date in its canonical ISO form.
func (j Date) MarshalJSON() ([]byte, error) {
	str := j.String()
	return json.Marshal(&str)
}

var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)

// Range represents an inclusive range of dates. A zero From or To leaves
// that side unbounded.
type Range struct{ From, To Date }

// Contains returns true when the date is included in the range (boundaries included).
func (r Range) Contains(d Date) bool {
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To) {
		return false
	}
	return true
}
