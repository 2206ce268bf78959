package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kostadin12/sis-api/internal/domain/absence"
	"github.com/kostadin12/sis-api/internal/domain/user"
)

// Calendars is the slice of the calendar service the calculator needs.
type Calendars interface {
	NonWorkingDays(ctx context.Context, year int) ([]time.Time, error)
}

// WorkingDaysResult holds the working days of a range, ascending.
type WorkingDaysResult struct {
	Count int
	Dates []time.Time
}

// AvailabilityReport is the per-user day accounting over a period.
// DaysAvailable is fractional when a capacity cap scales the working
// days.
type AvailabilityReport struct {
	EmployeeNumber   string  `json:"employee_number"`
	TotalWorkingDays int     `json:"total_working_days"`
	DaysOff          int     `json:"days_off"`
	DaysAvailable    float64 `json:"days_available"`
}

// Service computes working-day counts and per-user availability for
// reporting flows.
type Service struct {
	calendars Calendars
	absence.AbsenceRepository
	user.UserRepository
}

func NewService(calendars Calendars, absenceRepository absence.AbsenceRepository, userRepository user.UserRepository) *Service {
	return &Service{
		calendars:         calendars,
		AbsenceRepository: absenceRepository,
		UserRepository:    userRepository,
	}
}

// WorkingDays enumerates the working days in [startDate, endDate]
// inclusive. An inverted range yields an empty result rather than an
// error; reporting callers treat it as "nothing to count". When the
// calendar lookup fails for a year, that year degrades to a local
// weekend-only test so an upstream outage cannot zero the count — a
// best-effort reduction, logged, not a correctness guarantee.
func (s *Service) WorkingDays(ctx context.Context, startDate, endDate time.Time) (WorkingDaysResult, error) {
	start := dateOnly(startDate)
	end := dateOnly(endDate)

	if start.After(end) {
		slog.Warn("Invalid date range for working days calculation", "start_date", start, "end_date", end)
		return WorkingDaysResult{}, nil
	}

	nonWorking := make(map[time.Time]struct{})
	weekendOnlyYears := make(map[int]bool)

	for year := start.Year(); year <= end.Year(); year++ {
		days, err := s.calendars.NonWorkingDays(ctx, year)
		if err != nil {
			slog.Error("Failed to get non-working days, degrading to weekend-only", "year", year, "error", err)
			weekendOnlyYears[year] = true
			continue
		}
		for _, d := range days {
			nonWorking[dateOnly(d)] = struct{}{}
		}
	}

	var result WorkingDaysResult
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if weekendOnlyYears[d.Year()] {
			if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
				continue
			}
		} else if _, ok := nonWorking[d]; ok {
			continue
		}
		result.Dates = append(result.Dates, d)
	}
	result.Count = len(result.Dates)
	return result, nil
}

// Availability computes daysOff and daysAvailable for one user over a
// period. capacityCap, when non-nil, scales the available days by a
// percentage in [0,100].
func (s *Service) Availability(ctx context.Context, employeeNumber string, startDate, endDate time.Time, capacityCap *int) (AvailabilityReport, error) {
	if capacityCap != nil && (*capacityCap < 0 || *capacityCap > 100) {
		return AvailabilityReport{}, fmt.Errorf("capacity cap must be between 0 and 100")
	}

	usr, err := s.UserRepository.GetByEmployeeNumber(ctx, employeeNumber)
	if err != nil {
		return AvailabilityReport{}, err
	}

	workingDays, err := s.WorkingDays(ctx, startDate, endDate)
	if err != nil {
		return AvailabilityReport{}, err
	}

	workingSet := make(map[time.Time]struct{}, workingDays.Count)
	for _, d := range workingDays.Dates {
		workingSet[d] = struct{}{}
	}

	absences, err := s.AbsenceRepository.GetByUserWithinRange(ctx, usr.ID, dateOnly(startDate), dateOnly(endDate))
	if err != nil {
		return AvailabilityReport{}, fmt.Errorf("failed to get absences within range: %w", err)
	}

	// Absence days outside the period or falling on non-working days do
	// not count against availability.
	daysOff := make(map[time.Time]struct{})
	for _, a := range absences {
		for d := dateOnly(a.StartDate); !d.After(dateOnly(a.EndDate)); d = d.AddDate(0, 0, 1) {
			if _, ok := workingSet[d]; ok {
				daysOff[d] = struct{}{}
			}
		}
	}

	report := AvailabilityReport{
		EmployeeNumber:   usr.EmployeeNumber,
		TotalWorkingDays: workingDays.Count,
		DaysOff:          len(daysOff),
	}

	if capacityCap != nil {
		report.DaysAvailable = float64(workingDays.Count)*(float64(*capacityCap)/100) - float64(len(daysOff))
	} else {
		report.DaysAvailable = float64(workingDays.Count - len(daysOff))
	}

	return report, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
