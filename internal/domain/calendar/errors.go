package calendar

import "errors"

var (
	ErrYearNotFound = errors.New("year entry not found")
)
