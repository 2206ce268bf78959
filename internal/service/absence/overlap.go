package absence

import (
	"context"
	"fmt"
	"time"

	"github.com/kostadin12/sis-api/internal/domain/absence"
)

// OverlapValidator decides whether a candidate interval conflicts with a
// user's existing absences. Pure read; turning a conflict into a
// rejection is the lifecycle's job.
type OverlapValidator struct {
	absence.AbsenceRepository
}

func NewOverlapValidator(absenceRepository absence.AbsenceRepository) *OverlapValidator {
	return &OverlapValidator{AbsenceRepository: absenceRepository}
}

// HasConflict reports whether [startDate, endDate] shares at least one
// calendar day with any of the user's absences. ignoreID excludes one
// absence from the conflict set so an update cannot collide with
// itself.
func (v *OverlapValidator) HasConflict(ctx context.Context, userID string, startDate, endDate time.Time, ignoreID *string) (bool, error) {
	conflict, err := v.AbsenceRepository.HasOverlapping(ctx, userID, startDate, endDate, ignoreID)
	if err != nil {
		return false, fmt.Errorf("failed to check overlapping absences: %w", err)
	}
	return conflict, nil
}
