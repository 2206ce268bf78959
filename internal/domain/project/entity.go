package project

// Membership links a user to a project. Capacity is the percentage
// (0-100) of the user's time the project consumes.
type Membership struct {
	UserID    string
	ProjectID string
	Capacity  int
}
