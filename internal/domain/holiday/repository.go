package holiday

import (
	"context"
	"time"
)

// Repository reads the institution holiday list.
type Repository interface {
	GetByYear(ctx context.Context, year int) ([]CustomHoliday, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]CustomHoliday, error)
}

// MapByDate indexes holidays by their ISO date string for calendar
// lookups.
func MapByDate(holidays []CustomHoliday) map[string]string {
	m := make(map[string]string, len(holidays))
	for _, h := range holidays {
		m[h.Date.Format("2006-01-02")] = h.Name
	}
	return m
}
