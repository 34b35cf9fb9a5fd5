package calendar

import "time"

// OrthodoxEaster returns the Gregorian-calendar date of Orthodox Easter
// Sunday for the given year, valid for 1900 through 2099.
//
// The date is first computed on the Julian calendar with the Meeus
// Julian algorithm, then shifted by the 13-day Julian/Gregorian offset
// that holds in that range.
func OrthodoxEaster(year int) time.Time {
	a := year % 4
	b := year % 7
	c := year % 19
	d := (19*c + 15) % 30
	e := (2*a + 4*b - d + 34) % 7

	month := (d + e + 114) / 31
	day := (d+e+114)%31 + 1

	julian := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return julian.AddDate(0, 0, 13)
}
