package user

import "time"

// User is an employee known to the system. EmployeeNumber is the public
// handle ("EMP" + 5 digits) used by the HTTP surface; ID is the internal
// key.
type User struct {
	ID             string
	EmployeeNumber string
	FirstName      string
	LastName       string
	Email          *string
	SecondaryEmail *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName joins first and last name for mail templates.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Addresses returns the user's contact addresses, primary first,
// skipping unset ones.
func (u User) Addresses() []string {
	var out []string
	if u.Email != nil && *u.Email != "" {
		out = append(out, *u.Email)
	}
	if u.SecondaryEmail != nil && *u.SecondaryEmail != "" {
		out = append(out, *u.SecondaryEmail)
	}
	return out
}
