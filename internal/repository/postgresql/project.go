package postgresql

import (
	"context"

	"github.com/kostadin12/sis-api/internal/domain/project"
	"github.com/kostadin12/sis-api/internal/pkg/database"
)

type membershipRepositoryImpl struct {
	db *database.DB
}

func NewMembershipRepository(db *database.DB) project.MembershipRepository {
	return &membershipRepositoryImpl{db: db}
}

func (r *membershipRepositoryImpl) ProjectsOf(ctx context.Context, userID string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT project_id FROM user_projects WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectIDs(rows)
}

func (r *membershipRepositoryImpl) MembersOf(ctx context.Context, projectID string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT user_id FROM user_projects WHERE project_id = $1`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectIDs(rows)
}

func (r *membershipRepositoryImpl) SharesProject(ctx context.Context, userID, otherUserID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM user_projects a
			INNER JOIN user_projects b ON a.project_id = b.project_id
			WHERE a.user_id = $1 AND b.user_id = $2
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, userID, otherUserID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
