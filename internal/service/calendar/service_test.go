package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kostadin12/sis-api/internal/domain/calendar"
)

type fakeYearRepo struct {
	entries map[int]calendar.YearEntry
	upserts int
}

func newFakeYearRepo() *fakeYearRepo {
	return &fakeYearRepo{entries: make(map[int]calendar.YearEntry)}
}

func (f *fakeYearRepo) GetByYear(_ context.Context, year int) (calendar.YearEntry, error) {
	entry, ok := f.entries[year]
	if !ok {
		return calendar.YearEntry{}, calendar.ErrYearNotFound
	}
	return entry, nil
}

func (f *fakeYearRepo) Upsert(_ context.Context, entry calendar.YearEntry) (calendar.YearEntry, error) {
	f.upserts++
	f.entries[entry.Year] = entry
	return entry, nil
}

func (f *fakeYearRepo) DeleteByYear(_ context.Context, year int) error {
	if _, ok := f.entries[year]; !ok {
		return calendar.ErrYearNotFound
	}
	delete(f.entries, year)
	return nil
}

func (f *fakeYearRepo) DeleteOlderThan(_ context.Context, year int) (int64, error) {
	var deleted int64
	for y := range f.entries {
		if y < year {
			delete(f.entries, y)
			deleted++
		}
	}
	return deleted, nil
}

type fakeHolidaySource struct {
	holidays map[int][]time.Time
	err      error
	calls    int
}

func (f *fakeHolidaySource) FetchHolidays(_ context.Context, year int) ([]time.Time, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.holidays[year], nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func contains(days []time.Time, d time.Time) bool {
	for _, day := range days {
		if day.Equal(d) {
			return true
		}
	}
	return false
}

func TestService_NonWorkingDays_PopulatesOnMiss(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newFakeYearRepo()
	source := &fakeHolidaySource{holidays: map[int][]time.Time{
		2024: {date(2024, time.March, 3)},
	}}
	svc := NewService(repo, source)

	days, err := svc.NonWorkingDays(ctx, 2024)
	require.NoError(t, err)

	// Holiday plus every weekend of the year
	assert.True(t, contains(days, date(2024, time.March, 3)))
	assert.True(t, contains(days, date(2024, time.January, 6)))
	assert.False(t, contains(days, date(2024, time.January, 2)))
	assert.Equal(t, 1, repo.upserts)
	assert.Equal(t, 1, source.calls)

	// Sorted ascending
	for i := 1; i < len(days); i++ {
		assert.True(t, days[i-1].Before(days[i]))
	}
}

func TestService_NonWorkingDays_CacheHitSkipsSource(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newFakeYearRepo()
	source := &fakeHolidaySource{holidays: map[int][]time.Time{}}
	svc := NewService(repo, source)

	_, err := svc.NonWorkingDays(ctx, 2024)
	require.NoError(t, err)
	_, err = svc.NonWorkingDays(ctx, 2024)
	require.NoError(t, err)

	assert.Equal(t, 1, source.calls)
	assert.Equal(t, 1, repo.upserts)
}

func TestService_NonWorkingDays_WeekendHolidayDeduped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newFakeYearRepo()
	// 2024-03-03 is a Sunday; it must appear once, not twice
	source := &fakeHolidaySource{holidays: map[int][]time.Time{
		2024: {date(2024, time.March, 3)},
	}}
	svc := NewService(repo, source)

	days, err := svc.NonWorkingDays(ctx, 2024)
	require.NoError(t, err)

	count := 0
	for _, d := range days {
		if d.Equal(date(2024, time.March, 3)) {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestService_NonWorkingDays_SourceFailureUsesFallback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newFakeYearRepo()
	source := &fakeHolidaySource{err: errors.New("upstream down")}
	svc := NewService(repo, source)

	days, err := svc.NonWorkingDays(ctx, 2024)
	require.NoError(t, err)

	// Fixed-date holidays from the fallback table
	assert.True(t, contains(days, date(2024, time.March, 3)))
	assert.True(t, contains(days, date(2024, time.December, 25)))
	// Entry is stored so later requests are served from cache
	assert.Equal(t, 1, repo.upserts)
}

func TestService_RefreshYear_OverwritesExisting(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newFakeYearRepo()
	source := &fakeHolidaySource{holidays: map[int][]time.Time{}}
	svc := NewService(repo, source)

	_, err := svc.NonWorkingDays(ctx, 2024)
	require.NoError(t, err)

	source.holidays[2024] = []time.Time{date(2024, time.May, 1)}
	require.NoError(t, svc.RefreshYear(ctx, 2024))

	days, err := svc.NonWorkingDays(ctx, 2024)
	require.NoError(t, err)
	assert.True(t, contains(days, date(2024, time.May, 1)))
	assert.Equal(t, 2, repo.upserts)
}

func TestService_DeleteYear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newFakeYearRepo()
	svc := NewService(repo, &fakeHolidaySource{})

	_, err := svc.NonWorkingDays(ctx, 2024)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteYear(ctx, 2024))
	assert.ErrorIs(t, svc.DeleteYear(ctx, 2024), calendar.ErrYearNotFound)
}

func TestService_PurgeStale(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newFakeYearRepo()
	for _, y := range []int{2020, 2021, 2022, 2023, 2024} {
		repo.entries[y] = calendar.YearEntry{Year: y}
	}

	svc := NewService(repo, &fakeHolidaySource{})
	svc.now = func() time.Time { return date(2024, time.June, 15) }

	require.NoError(t, svc.PurgeStale(ctx))

	// Cutoff is 2024 - 3 = 2021; strictly older entries go
	assert.NotContains(t, repo.entries, 2020)
	assert.Contains(t, repo.entries, 2021)
	assert.Contains(t, repo.entries, 2024)
}

func TestWeekends_CountAndBounds(t *testing.T) {
	t.Parallel()
	weekends := Weekends(2024)

	// 2024 has 52 Saturdays and 52 Sundays
	assert.Len(t, weekends, 104)
	for _, d := range weekends {
		wd := d.Weekday()
		assert.True(t, wd == time.Saturday || wd == time.Sunday)
		assert.Equal(t, 2024, d.Year())
	}
}
