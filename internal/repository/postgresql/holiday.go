package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/hrportal/leave-backend-go/internal/domain/holiday"
	"github.com/hrportal/leave-backend-go/internal/pkg/database"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.Repository {
	return &holidayRepositoryImpl{db: db}
}

func (r *holidayRepositoryImpl) query(ctx context.Context, where string, args ...interface{}) ([]holiday.CustomHoliday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, date, name, created_at
		FROM custom_holidays
	` + where + ` ORDER BY date ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []holiday.CustomHoliday
	for rows.Next() {
		var h holiday.CustomHoliday
		if err := rows.Scan(&h.ID, &h.Date, &h.Name, &h.CreatedAt); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return holidays, nil
}

func (r *holidayRepositoryImpl) GetByYear(ctx context.Context, year int) ([]holiday.CustomHoliday, error) {
	return r.query(ctx, ` WHERE EXTRACT(YEAR FROM date) = $1`, year)
}

func (r *holidayRepositoryImpl) GetByDateRange(ctx context.Context, start, end time.Time) ([]holiday.CustomHoliday, error) {
	return r.query(ctx, ` WHERE date >= $1 AND date <= $2`, start, end)
}
