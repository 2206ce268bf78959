package absence

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kostadin12/sis-api/internal/domain/absence"
	"github.com/kostadin12/sis-api/internal/domain/user"
)

const (
	maxPeriodDays = 30
	windowDays    = 365
)

// Transactor runs fn inside a storage transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier consumes the before/after diff of a lifecycle operation.
// Delivery failures are the notifier's problem; they never fail the
// operation that produced the diff.
type Notifier interface {
	AbsenceChanged(ctx context.Context, diff absence.Diff)
}

// Service orchestrates absence create/update/delete: fail-fast
// validation, per-user serialization at the persistence boundary, and
// diff emission for notification planning.
type Service struct {
	tx Transactor
	absence.AbsenceRepository
	user.UserRepository
	overlaps    *OverlapValidator
	substitutes *SubstituteResolver
	notifier    Notifier

	// now supplies the reference date for the ±365-day window so tests
	// can pin it.
	now func() time.Time
}

func NewService(
	tx Transactor,
	absenceRepository absence.AbsenceRepository,
	userRepository user.UserRepository,
	overlaps *OverlapValidator,
	substitutes *SubstituteResolver,
	notifier Notifier,
) *Service {
	return &Service{
		tx:                tx,
		AbsenceRepository: absenceRepository,
		UserRepository:    userRepository,
		overlaps:          overlaps,
		substitutes:       substitutes,
		notifier:          notifier,
		now:               time.Now,
	}
}

// Create validates and persists a new absence, then hands the diff to
// the notifier.
func (s *Service) Create(ctx context.Context, cmd absence.SaveAbsenceCommand) (absence.Absence, error) {
	slog.Info("Saving new absence", "employee_number", cmd.EmployeeNumber, "start_date", cmd.StartDate, "end_date", cmd.EndDate)

	if err := s.validate(cmd); err != nil {
		return absence.Absence{}, err
	}

	usr, err := s.UserRepository.GetByEmployeeNumber(ctx, cmd.EmployeeNumber)
	if err != nil {
		return absence.Absence{}, err
	}

	var created absence.Absence
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.AbsenceRepository.LockUser(ctx, usr.ID); err != nil {
			return fmt.Errorf("failed to lock user %s: %w", usr.EmployeeNumber, err)
		}

		substitute, err := s.substitutes.Resolve(ctx, usr, cmd.SubstituteEmployeeNumber)
		if err != nil {
			return err
		}

		conflict, err := s.overlaps.HasConflict(ctx, usr.ID, cmd.StartDate, cmd.EndDate, nil)
		if err != nil {
			return err
		}
		if conflict {
			return absence.ErrOverlappingAbsence
		}

		a := absence.Absence{
			UserID:      usr.ID,
			StartDate:   cmd.StartDate,
			EndDate:     cmd.EndDate,
			AbsenceType: cmd.AbsenceType,
			BookedDate:  dateOnly(s.now()),
		}
		if substitute != nil {
			a.SubstituteID = &substitute.ID
		}

		created, err = s.AbsenceRepository.Create(ctx, a)
		if err != nil {
			return fmt.Errorf("failed to create absence: %w", err)
		}
		return nil
	})
	if err != nil {
		return absence.Absence{}, err
	}

	slog.Info("Absence saved successfully", "absence_id", created.ID)
	s.notifier.AbsenceChanged(ctx, absence.Diff{New: &created})

	return created, nil
}

// Update revalidates the command against the stored absence and mutates
// it in place. The pre-mutation snapshot is captured before any field
// write so the emitted diff carries the true old state.
func (s *Service) Update(ctx context.Context, id string, cmd absence.SaveAbsenceCommand) (absence.Absence, error) {
	slog.Info("Updating absence", "absence_id", id, "employee_number", cmd.EmployeeNumber)

	if err := s.validate(cmd); err != nil {
		return absence.Absence{}, err
	}

	usr, err := s.UserRepository.GetByEmployeeNumber(ctx, cmd.EmployeeNumber)
	if err != nil {
		return absence.Absence{}, err
	}

	var old, updated absence.Absence
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.AbsenceRepository.LockUser(ctx, usr.ID); err != nil {
			return fmt.Errorf("failed to lock user %s: %w", usr.EmployeeNumber, err)
		}

		current, err := s.AbsenceRepository.GetByIDAndUser(ctx, id, usr.ID)
		if err != nil {
			return err
		}

		substitute, err := s.substitutes.Resolve(ctx, usr, cmd.SubstituteEmployeeNumber)
		if err != nil {
			return err
		}

		conflict, err := s.overlaps.HasConflict(ctx, usr.ID, cmd.StartDate, cmd.EndDate, &current.ID)
		if err != nil {
			return err
		}
		if conflict {
			return absence.ErrOverlappingAbsence
		}

		old = current

		current.StartDate = cmd.StartDate
		current.EndDate = cmd.EndDate
		current.AbsenceType = cmd.AbsenceType
		current.SubstituteID = nil
		if substitute != nil {
			current.SubstituteID = &substitute.ID
		}

		if err := s.AbsenceRepository.Update(ctx, current); err != nil {
			return fmt.Errorf("failed to update absence: %w", err)
		}
		updated = current
		return nil
	})
	if err != nil {
		return absence.Absence{}, err
	}

	slog.Info("Absence updated successfully", "absence_id", updated.ID)
	s.notifier.AbsenceChanged(ctx, absence.Diff{Old: &old, New: &updated})

	return updated, nil
}

// Delete removes an absence addressed by (id, employeeNumber) and emits
// a deletion diff.
func (s *Service) Delete(ctx context.Context, id, employeeNumber string) error {
	slog.Info("Deleting absence", "absence_id", id, "employee_number", employeeNumber)

	usr, err := s.UserRepository.GetByEmployeeNumber(ctx, employeeNumber)
	if err != nil {
		return err
	}

	deleted, err := s.AbsenceRepository.GetByIDAndUser(ctx, id, usr.ID)
	if err != nil {
		return err
	}

	if err := s.AbsenceRepository.Delete(ctx, deleted.ID); err != nil {
		return fmt.Errorf("failed to delete absence: %w", err)
	}

	slog.Info("Absence deleted successfully", "absence_id", deleted.ID)
	s.notifier.AbsenceChanged(ctx, absence.Diff{Old: &deleted})

	return nil
}

// GetByID returns one absence.
func (s *Service) GetByID(ctx context.Context, id string) (absence.Absence, error) {
	return s.AbsenceRepository.GetByID(ctx, id)
}

// ListByEmployeeNumber returns all absences of one user, ordered by
// start date.
func (s *Service) ListByEmployeeNumber(ctx context.Context, employeeNumber string) ([]absence.Absence, error) {
	usr, err := s.UserRepository.GetByEmployeeNumber(ctx, employeeNumber)
	if err != nil {
		return nil, err
	}
	return s.AbsenceRepository.GetByUserID(ctx, usr.ID)
}

// validate applies the command-level rules in order; the first
// violation wins. Substitute resolution and the overlap check follow
// inside the transaction.
func (s *Service) validate(cmd absence.SaveAbsenceCommand) error {
	if cmd.SubstituteEmployeeNumber != nil && strings.EqualFold(cmd.EmployeeNumber, *cmd.SubstituteEmployeeNumber) {
		return absence.ErrSelfSubstitute
	}

	start := dateOnly(cmd.StartDate)
	end := dateOnly(cmd.EndDate)

	if start.After(end) {
		return absence.ErrStartAfterEnd
	}

	if daysBetween(start, end) > maxPeriodDays {
		return absence.ErrPeriodTooLong
	}

	today := dateOnly(s.now())
	if (start.Before(today) && daysBetween(start, today) > windowDays) ||
		(end.After(today) && daysBetween(today, end) > windowDays) {
		return absence.ErrPeriodOutOfWindow
	}

	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}
