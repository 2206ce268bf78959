package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/kostadin12/sis-api/internal/domain/calendar"
	"golang.org/x/sync/singleflight"
)

// retentionYears is how far back year entries are kept before the
// cleanup job purges them.
const retentionYears = 3

// Service answers "which dates of year Y are non-working" with a
// remote-fetch, cache, fallback chain. Cache population for an uncached
// year is single-flight per year key so concurrent first requests do
// not duplicate the fetch or the insert.
type Service struct {
	calendar.YearEntryRepository
	source calendar.HolidaySource
	group  singleflight.Group
	now    func() time.Time
}

func NewService(yearEntryRepository calendar.YearEntryRepository, source calendar.HolidaySource) *Service {
	return &Service{
		YearEntryRepository: yearEntryRepository,
		source:              source,
		now:                 time.Now,
	}
}

// NonWorkingDays returns the sorted non-working dates (weekends union
// holidays) of a year, populating the cache on first request.
func (s *Service) NonWorkingDays(ctx context.Context, year int) ([]time.Time, error) {
	entry, err := s.YearEntryRepository.GetByYear(ctx, year)
	if err == nil {
		return entry.NonWorkingDays, nil
	}
	if !errors.Is(err, calendar.ErrYearNotFound) {
		return nil, fmt.Errorf("failed to get year entry %d: %w", year, err)
	}

	days, err, _ := s.group.Do(fmt.Sprintf("year-%d", year), func() (interface{}, error) {
		// Re-check under the flight: a concurrent caller may have stored
		// the entry while we waited.
		if entry, err := s.YearEntryRepository.GetByYear(ctx, year); err == nil {
			return entry.NonWorkingDays, nil
		}
		return s.populateYear(ctx, year)
	})
	if err != nil {
		return nil, err
	}
	return days.([]time.Time), nil
}

// RefreshYear re-derives and stores a year entry regardless of cache
// state. Used by the scheduled daily refresh.
func (s *Service) RefreshYear(ctx context.Context, year int) error {
	days := s.deriveNonWorkingDays(ctx, year)
	if _, err := s.YearEntryRepository.Upsert(ctx, calendar.YearEntry{Year: year, NonWorkingDays: days}); err != nil {
		return fmt.Errorf("failed to store year entry %d: %w", year, err)
	}
	return nil
}

// DeleteYear removes one cached year entry.
func (s *Service) DeleteYear(ctx context.Context, year int) error {
	return s.YearEntryRepository.DeleteByYear(ctx, year)
}

// PurgeStale deletes year entries older than the retention window.
func (s *Service) PurgeStale(ctx context.Context) error {
	cutoff := s.now().Year() - retentionYears
	deleted, err := s.YearEntryRepository.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge year entries before %d: %w", cutoff, err)
	}
	if deleted > 0 {
		slog.Info("Purged stale year entries", "cutoff_year", cutoff, "count", deleted)
	}
	return nil
}

func (s *Service) populateYear(ctx context.Context, year int) ([]time.Time, error) {
	slog.Info("Populating calendar year", "year", year)

	days := s.deriveNonWorkingDays(ctx, year)

	saved, err := s.YearEntryRepository.Upsert(ctx, calendar.YearEntry{Year: year, NonWorkingDays: days})
	if err != nil {
		return nil, fmt.Errorf("failed to store year entry %d: %w", year, err)
	}
	return saved.NonWorkingDays, nil
}

// deriveNonWorkingDays unions fetched holidays with weekends. A failed
// fetch degrades to the hardcoded holiday table; the error is logged,
// never surfaced, and the entry stays eligible for a later refresh to
// overwrite.
func (s *Service) deriveNonWorkingDays(ctx context.Context, year int) []time.Time {
	holidays, err := s.source.FetchHolidays(ctx, year)
	if err != nil {
		slog.Error("Holiday source failed, using fallback table", "year", year, "error", err)
		holidays = FallbackHolidays(year)
	}

	set := make(map[time.Time]struct{})
	for _, d := range holidays {
		set[dateOnly(d)] = struct{}{}
	}
	for _, d := range Weekends(year) {
		set[d] = struct{}{}
	}

	days := make([]time.Time, 0, len(set))
	for d := range set {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// Weekends returns every Saturday and Sunday of a year, ascending.
func Weekends(year int) []time.Time {
	var weekends []time.Time
	for d := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC); d.Year() == year; d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			weekends = append(weekends, d)
		}
	}
	return weekends
}

// FallbackHolidays is the fixed Bulgarian public-holiday table used
// when the external source is unavailable. Movable feasts (Easter) are
// not covered; the next successful refresh corrects the entry.
func FallbackHolidays(year int) []time.Time {
	dates := [][2]int{
		{int(time.January), 1},    // New Year's Day
		{int(time.March), 3},      // Liberation Day
		{int(time.May), 1},        // Labour Day
		{int(time.May), 6},        // St. George's Day
		{int(time.May), 24},       // Bulgarian Culture Day
		{int(time.September), 6},  // Unification Day
		{int(time.September), 22}, // Independence Day
		{int(time.December), 24},  // Christmas Eve
		{int(time.December), 25},  // Christmas Day
		{int(time.December), 26},  // Second Day of Christmas
	}

	holidays := make([]time.Time, 0, len(dates))
	for _, md := range dates {
		holidays = append(holidays, time.Date(year, time.Month(md[0]), md[1], 0, 0, 0, 0, time.UTC))
	}
	return holidays
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
