package holiday

import "time"

// CustomHoliday is one institution-declared closed day. The list is
// maintained outside this core and read-only here.
type CustomHoliday struct {
	ID        string
	Date      time.Time
	Name      string
	CreatedAt time.Time
}
