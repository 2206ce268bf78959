package absence

import (
	"context"
	"time"
)

// AbsenceRepository - interface for the absences table.
type AbsenceRepository interface {
	Create(ctx context.Context, a Absence) (Absence, error)
	GetByID(ctx context.Context, id string) (Absence, error)
	GetByIDAndUser(ctx context.Context, id, userID string) (Absence, error)
	GetByUserID(ctx context.Context, userID string) ([]Absence, error)
	// GetByUserWithinRange returns the user's absences that touch
	// [startDate, endDate] (closed-interval intersection).
	GetByUserWithinRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]Absence, error)
	// HasOverlapping reports whether any absence of the user intersects
	// [startDate, endDate]. ignoreID, when non-nil, excludes that absence
	// from the conflict set (update-in-place).
	HasOverlapping(ctx context.Context, userID string, startDate, endDate time.Time, ignoreID *string) (bool, error)
	Update(ctx context.Context, a Absence) error
	Delete(ctx context.Context, id string) error
	// LockUser serializes concurrent writes for one user. Must be called
	// inside a transaction; the lock is released on commit or rollback.
	LockUser(ctx context.Context, userID string) error
}
