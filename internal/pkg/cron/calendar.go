package cron

import (
	"context"
	"fmt"
	"time"
)

// CalendarService is the slice of the calendar service the jobs drive.
type CalendarService interface {
	RefreshYear(ctx context.Context, year int) error
	PurgeStale(ctx context.Context) error
}

// CalendarJobs contains calendar maintenance cron jobs
type CalendarJobs struct {
	calendarService CalendarService
	now             func() time.Time
}

// NewCalendarJobs creates calendar cron jobs
func NewCalendarJobs(calendarService CalendarService) *CalendarJobs {
	return &CalendarJobs{
		calendarService: calendarService,
		now:             time.Now,
	}
}

// RegisterJobs registers all calendar-related cron jobs
func (j *CalendarJobs) RegisterJobs(scheduler *Scheduler) {
	// Check hourly, run once a day behind the midnight gate
	scheduler.AddJob("refresh_calendar_years", 1*time.Hour, j.RefreshCalendarYears)

	// Purge entries past retention once a day
	scheduler.AddJob("purge_stale_calendar_years", 24*time.Hour, j.PurgeStaleCalendarYears)
}

// RefreshCalendarYears re-derives the current and next year entries so
// late holiday announcements and fallback-built entries get corrected.
func (j *CalendarJobs) RefreshCalendarYears(ctx context.Context) error {
	// Only run at midnight (00:00-00:59 UTC)
	if j.now().UTC().Hour() != 0 {
		return nil
	}
	return j.refresh(ctx)
}

func (j *CalendarJobs) refresh(ctx context.Context) error {
	currentYear := j.now().UTC().Year()
	for _, year := range []int{currentYear, currentYear + 1} {
		if err := j.calendarService.RefreshYear(ctx, year); err != nil {
			return fmt.Errorf("failed to refresh calendar year %d: %w", year, err)
		}
	}
	return nil
}

// PurgeStaleCalendarYears deletes year entries older than the retention
// window.
func (j *CalendarJobs) PurgeStaleCalendarYears(ctx context.Context) error {
	return j.calendarService.PurgeStale(ctx)
}
