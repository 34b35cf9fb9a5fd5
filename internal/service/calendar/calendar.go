// Package calendar answers "is this date a working day?" for the
// Romanian legal holiday calendar plus an institution-declared list of
// extra closed days. All functions are pure over the input date.
package calendar

import "time"

// Exclusion reason labels used by the working-day calculator.
const (
	ReasonWeekend       = "weekend"
	ReasonCustomHoliday = "institution holiday"
)

type nationalHoliday struct {
	month time.Month
	day   int
	name  string
}

// Fixed-date legal holidays. Movable feasts are derived from Orthodox
// Easter per year, see movableHolidays.
var fixedHolidays = []nationalHoliday{
	{time.January, 1, "New Year's Day"},
	{time.January, 2, "Day after New Year's Day"},
	{time.January, 6, "Epiphany"},
	{time.January, 7, "Synaxis of St. John the Baptist"},
	{time.January, 24, "Union of the Romanian Principalities"},
	{time.May, 1, "Labour Day"},
	{time.June, 1, "Children's Day"},
	{time.August, 15, "Dormition of the Mother of God"},
	{time.November, 30, "St. Andrew's Day"},
	{time.December, 1, "National Day"},
	{time.December, 25, "Christmas Day"},
	{time.December, 26, "Second Day of Christmas"},
}

type movableHoliday struct {
	offsetDays int // relative to Orthodox Easter Sunday
	name       string
}

var movableHolidays = []movableHoliday{
	{-2, "Good Friday"},
	{0, "Easter Sunday"},
	{1, "Easter Monday"},
	{49, "Pentecost"},
	{50, "Whit Monday"},
}

// Calendar resolves national holidays for any year. It carries no
// mutable state; custom holidays are supplied per call.
type Calendar struct{}

func New() *Calendar {
	return &Calendar{}
}

// HolidayName returns the national holiday name for date, if any.
func (c *Calendar) HolidayName(date time.Time) (string, bool) {
	for _, h := range fixedHolidays {
		if date.Month() == h.month && date.Day() == h.day {
			return h.name, true
		}
	}

	easter := OrthodoxEaster(date.Year())
	for _, h := range movableHolidays {
		d := easter.AddDate(0, 0, h.offsetDays)
		if date.Month() == d.Month() && date.Day() == d.Day() {
			return h.name, true
		}
	}

	return "", false
}

// IsDayOff reports whether date is a weekend, a national holiday or an
// institution holiday. custom maps ISO dates ("2006-01-02") to
// holiday names.
func (c *Calendar) IsDayOff(date time.Time, custom map[string]string) bool {
	if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
		return true
	}
	if _, ok := c.HolidayName(date); ok {
		return true
	}
	_, ok := custom[date.Format("2006-01-02")]
	return ok
}
