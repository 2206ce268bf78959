package calendar

import (
	"context"
	"time"
)

// YearEntryRepository - interface for the year_entries table.
type YearEntryRepository interface {
	GetByYear(ctx context.Context, year int) (YearEntry, error)
	// Upsert stores the entry for its year, replacing any existing one.
	Upsert(ctx context.Context, entry YearEntry) (YearEntry, error)
	DeleteByYear(ctx context.Context, year int) error
	// DeleteOlderThan removes entries for years strictly before the cutoff
	// and returns how many were removed.
	DeleteOlderThan(ctx context.Context, year int) (int64, error)
}

// HolidaySource fetches the public holidays of a year from an external
// provider. Implementations may fail or time out; callers are expected
// to degrade to a local fallback.
type HolidaySource interface {
	FetchHolidays(ctx context.Context, year int) ([]time.Time, error)
}
