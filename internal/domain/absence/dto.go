package absence

import "time"

// SaveAbsenceRequest is the command body for creating or updating an
// absence. Dates arrive as "2006-01-02" strings and are parsed at the
// handler boundary.
type SaveAbsenceRequest struct {
	StartDate                string  `json:"start_date"`
	EndDate                  string  `json:"end_date"`
	AbsenceType              string  `json:"absence_type"`
	EmployeeNumber           string  `json:"employee_number"`
	SubstituteEmployeeNumber *string `json:"substitute_employee_number,omitempty"`
}

// SaveAbsenceCommand is the parsed form handed to the lifecycle service.
type SaveAbsenceCommand struct {
	StartDate                time.Time
	EndDate                  time.Time
	AbsenceType              Type
	EmployeeNumber           string
	SubstituteEmployeeNumber *string
}

// AbsenceResponse is the outward representation of an absence.
type AbsenceResponse struct {
	ID                       string  `json:"id"`
	EmployeeNumber           string  `json:"employee_number"`
	StartDate                string  `json:"start_date"`
	EndDate                  string  `json:"end_date"`
	AbsenceType              string  `json:"absence_type"`
	SubstituteEmployeeNumber *string `json:"substitute_employee_number,omitempty"`
	BookedDate               string  `json:"booked_date"`
}
