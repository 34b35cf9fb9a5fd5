package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeWorkingDays_PlainWeek(t *testing.T) {
	t.Parallel()
	cal := New()

	// Mon 2026-03-02 through Fri 2026-03-06, no holidays.
	count, excluded := cal.ComputeWorkingDays(date(2026, time.March, 2), date(2026, time.March, 6), nil)
	assert.Equal(t, 5, count)
	assert.Empty(t, excluded)
}

func TestComputeWorkingDays_SpansWeekend(t *testing.T) {
	t.Parallel()
	cal := New()

	// Fri 2026-03-06 through Mon 2026-03-09.
	count, excluded := cal.ComputeWorkingDays(date(2026, time.March, 6), date(2026, time.March, 9), nil)
	assert.Equal(t, 2, count)
	require.Len(t, excluded, 2)
	assert.Equal(t, ReasonWeekend, excluded[0].Reason)
	assert.Equal(t, ReasonWeekend, excluded[1].Reason)
	// Ascending date order.
	assert.True(t, excluded[0].Date.Before(excluded[1].Date))
}

func TestComputeWorkingDays_NationalHoliday(t *testing.T) {
	t.Parallel()
	cal := New()

	// Easter Monday 2026 is April 13; the range Mon 13 - Wed 15 has two
	// working days.
	count, excluded := cal.ComputeWorkingDays(date(2026, time.April, 13), date(2026, time.April, 15), nil)
	assert.Equal(t, 2, count)
	require.Len(t, excluded, 1)
	assert.Equal(t, "Easter Monday", excluded[0].Reason)
}

func TestComputeWorkingDays_CustomHoliday(t *testing.T) {
	t.Parallel()
	cal := New()

	custom := map[string]string{
		"2026-03-05": "Institution founding day",
	}
	count, excluded := cal.ComputeWorkingDays(date(2026, time.March, 2), date(2026, time.March, 6), custom)
	assert.Equal(t, 4, count)
	require.Len(t, excluded, 1)
	assert.Equal(t, "Institution founding day", excluded[0].Reason)
}

func TestComputeWorkingDays_ZeroWorkingDays(t *testing.T) {
	t.Parallel()
	cal := New()

	// Sat 2026-03-07 + Sun 2026-03-08 + custom-closed Mon 2026-03-09.
	custom := map[string]string{"2026-03-09": "Inventory day"}
	count, excluded := cal.ComputeWorkingDays(date(2026, time.March, 7), date(2026, time.March, 9), custom)
	assert.Equal(t, 0, count)
	assert.Len(t, excluded, 3)
}

func TestComputeWorkingDays_EndBeforeStart(t *testing.T) {
	t.Parallel()
	cal := New()

	count, excluded := cal.ComputeWorkingDays(date(2026, time.March, 6), date(2026, time.March, 2), nil)
	assert.Equal(t, 0, count)
	assert.Nil(t, excluded)
}

func TestComputeWorkingDays_Deterministic(t *testing.T) {
	t.Parallel()
	cal := New()

	start, end := date(2026, time.April, 1), date(2026, time.April, 30)
	count1, excl1 := cal.ComputeWorkingDays(start, end, nil)
	count2, excl2 := cal.ComputeWorkingDays(start, end, nil)
	assert.Equal(t, count1, count2)
	assert.Equal(t, excl1, excl2)
}

func TestComputeWorkingDays_MonotonicOverEndExtension(t *testing.T) {
	t.Parallel()
	cal := New()

	start := date(2026, time.March, 2)
	prev := 0
	for end := start; end.Before(date(2026, time.May, 31)); end = end.AddDate(0, 0, 1) {
		count, _ := cal.ComputeWorkingDays(start, end, nil)
		assert.GreaterOrEqual(t, count, prev, "count decreased extending end to %s", end.Format("2006-01-02"))
		prev = count
	}
}
