package response

import (
	"errors"
	"net/http"

	"github.com/kostadin12/sis-api/internal/domain/absence"
	"github.com/kostadin12/sis-api/internal/domain/calendar"
	"github.com/kostadin12/sis-api/internal/domain/user"
	"github.com/kostadin12/sis-api/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Lookup errors
	case errors.Is(err, absence.ErrAbsenceNotFound):
		NotFound(w, "Absence not found")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrSubstituteNotFound):
		NotFound(w, "Substitute not found")
	case errors.Is(err, calendar.ErrYearNotFound):
		NotFound(w, "Calendar year not found")

	// Absence rule violations
	case errors.Is(err, absence.ErrOverlappingAbsence):
		Conflict(w, "An overlapping absence already exists")
	case errors.Is(err, absence.ErrSelfSubstitute):
		BadRequest(w, "An employee cannot substitute for themselves", nil)
	case errors.Is(err, absence.ErrStartAfterEnd):
		BadRequest(w, "Start date must not be after end date", nil)
	case errors.Is(err, absence.ErrPeriodTooLong):
		BadRequest(w, "Absence period must not exceed 30 days", nil)
	case errors.Is(err, absence.ErrPeriodOutOfWindow):
		BadRequest(w, "Absence must start within a year of today", nil)
	case errors.Is(err, absence.ErrNoProjects):
		BadRequest(w, "Employee is not assigned to any project", nil)
	case errors.Is(err, absence.ErrSubstituteNotInTeam):
		BadRequest(w, "Substitute does not share a project with the employee", nil)
	case errors.Is(err, absence.ErrInvalidAbsenceType):
		BadRequest(w, "Invalid absence type", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
