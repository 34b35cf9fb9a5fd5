package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOrthodoxEaster(t *testing.T) {
	t.Parallel()

	cases := []struct {
		year int
		want time.Time
	}{
		{2024, date(2024, time.May, 5)},
		{2025, date(2025, time.April, 20)},
		{2026, date(2026, time.April, 12)},
		{2027, date(2027, time.May, 2)},
	}

	for _, c := range cases {
		got := OrthodoxEaster(c.year)
		assert.True(t, got.Equal(c.want), "OrthodoxEaster(%d) = %s, want %s", c.year, got.Format("2006-01-02"), c.want.Format("2006-01-02"))
	}
}

func TestHolidayName_Fixed(t *testing.T) {
	t.Parallel()
	cal := New()

	name, ok := cal.HolidayName(date(2026, time.December, 1))
	assert.True(t, ok)
	assert.Equal(t, "National Day", name)

	name, ok = cal.HolidayName(date(2026, time.January, 24))
	assert.True(t, ok)
	assert.Equal(t, "Union of the Romanian Principalities", name)

	_, ok = cal.HolidayName(date(2026, time.March, 4))
	assert.False(t, ok)
}

func TestHolidayName_Movable(t *testing.T) {
	t.Parallel()
	cal := New()

	// Orthodox Easter 2026 falls on April 12.
	name, ok := cal.HolidayName(date(2026, time.April, 10))
	assert.True(t, ok)
	assert.Equal(t, "Good Friday", name)

	name, ok = cal.HolidayName(date(2026, time.April, 13))
	assert.True(t, ok)
	assert.Equal(t, "Easter Monday", name)

	name, ok = cal.HolidayName(date(2026, time.May, 31))
	assert.True(t, ok)
	assert.Equal(t, "Pentecost", name)
}

func TestIsDayOff(t *testing.T) {
	t.Parallel()
	cal := New()

	// 2026-03-07 is a Saturday.
	assert.True(t, cal.IsDayOff(date(2026, time.March, 7), nil))
	// 2026-03-04 is a plain Wednesday.
	assert.False(t, cal.IsDayOff(date(2026, time.March, 4), nil))
	// National holiday on a weekday.
	assert.True(t, cal.IsDayOff(date(2026, time.June, 1), nil))
	// Institution holiday.
	custom := map[string]string{"2026-03-04": "Institution founding day"}
	assert.True(t, cal.IsDayOff(date(2026, time.March, 4), custom))
}
