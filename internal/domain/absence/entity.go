package absence

import "time"

// Type is the reason attached to an absence.
type Type string

const (
	TypeVacation     Type = "vacation"
	TypeSickLeave    Type = "sick_leave"
	TypeHomeOffice   Type = "home_office"
	TypeBusinessTrip Type = "business_trip"
	TypeOther        Type = "other"
)

func (t Type) Valid() bool {
	switch t {
	case TypeVacation, TypeSickLeave, TypeHomeOffice, TypeBusinessTrip, TypeOther:
		return true
	}
	return false
}

// Absence is a closed date range [StartDate, EndDate] during which a user
// is unavailable. SubstituteID is optional; UserID never changes after
// creation.
type Absence struct {
	ID           string
	UserID       string
	StartDate    time.Time
	EndDate      time.Time
	AbsenceType  Type
	SubstituteID *string
	BookedDate   time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overlaps reports whether two closed date ranges share at least one
// calendar day: s1 <= e2 && s2 <= e1. Dates are compared at day
// granularity.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return !s1.After(e2) && !s2.After(e1)
}

// Diff is the before/after pair of an absence produced by a lifecycle
// operation. Create has Old == nil, delete has New == nil, update carries
// both with Old captured before any field was written.
type Diff struct {
	Old *Absence
	New *Absence
}
