package absence

import "errors"

var (
	ErrAbsenceNotFound     = errors.New("absence not found")
	ErrSelfSubstitute      = errors.New("user cannot be a substitute to himself")
	ErrStartAfterEnd       = errors.New("absence start date cannot be after the end date")
	ErrPeriodTooLong       = errors.New("absence period is too long")
	ErrPeriodOutOfWindow   = errors.New("absence must be no more than 1 year in the past or 1 year in the future")
	ErrNoProjects          = errors.New("user not included in projects")
	ErrSubstituteNotInTeam = errors.New("substitute must be in the same project team(s) as the absent user")
	ErrOverlappingAbsence  = errors.New("absence overlaps another absence of the same user")
	ErrInvalidAbsenceType  = errors.New("invalid absence type")
)
