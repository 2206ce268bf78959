package user

import "context"

// UserRepository - interface for the users table. Employee number
// lookups are case-insensitive.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmployeeNumber(ctx context.Context, employeeNumber string) (User, error)
	GetByIDs(ctx context.Context, ids []string) ([]User, error)
}
