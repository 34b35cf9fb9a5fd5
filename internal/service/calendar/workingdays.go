package calendar

import (
	"time"

	"github.com/hrportal/leave-backend-go/internal/domain/leave"
)

// ComputeWorkingDays walks the inclusive [start, end] range once and
// returns the count of working days plus every excluded day with its
// reason, in ascending date order. A range with zero working days is a
// valid, reportable outcome; callers decide whether to block on it.
//
// end before start yields a zero count with no exclusions; the caller
// surfaces the validation error.
func (c *Calendar) ComputeWorkingDays(start, end time.Time, custom map[string]string) (int, []leave.ExcludedDay) {
	if end.Before(start) {
		return 0, nil
	}

	var count int
	var excluded []leave.ExcludedDay

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		reason, off := c.exclusionReason(d, custom)
		if off {
			excluded = append(excluded, leave.ExcludedDay{Date: d, Reason: reason})
			continue
		}
		count++
	}

	return count, excluded
}

// exclusionReason resolves the most specific reason a day is off.
// Weekend wins over holidays so a Saturday national holiday still
// reads "weekend", matching how the breakdown is rendered.
func (c *Calendar) exclusionReason(date time.Time, custom map[string]string) (string, bool) {
	if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
		return ReasonWeekend, true
	}
	if name, ok := c.HolidayName(date); ok {
		return name, true
	}
	if name, ok := custom[date.Format("2006-01-02")]; ok {
		if name == "" {
			return ReasonCustomHoliday, true
		}
		return name, true
	}
	return "", false
}
