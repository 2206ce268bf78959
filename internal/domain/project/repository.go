package project

import "context"

// MembershipRepository - interface for the user_projects table. Reads
// always hit the store so membership changes are observed immediately;
// callers must not cache results across requests.
type MembershipRepository interface {
	// ProjectsOf returns the ids of the projects the user belongs to.
	ProjectsOf(ctx context.Context, userID string) ([]string, error)
	// MembersOf returns the ids of all users in the project.
	MembersOf(ctx context.Context, projectID string) ([]string, error)
	// SharesProject reports whether the two users belong to at least one
	// common project.
	SharesProject(ctx context.Context, userID, otherUserID string) (bool, error)
}
