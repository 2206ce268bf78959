package calendar

import "time"

// YearEntry caches the non-working dates of one calendar year: the union
// of weekends and public holidays, deduplicated and sorted ascending.
// There is at most one entry per year.
type YearEntry struct {
	ID             string
	Year           int
	NonWorkingDays []time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
