package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kostadin12/sis-api/internal/domain/absence"
	"github.com/kostadin12/sis-api/internal/pkg/database"
)

type absenceRepositoryImpl struct {
	db *database.DB
}

func NewAbsenceRepository(db *database.DB) absence.AbsenceRepository {
	return &absenceRepositoryImpl{db: db}
}

const absenceColumns = `id, user_id, start_date, end_date, absence_type, substitute_id, booked_date, created_at, updated_at`

func scanAbsence(row pgx.Row) (absence.Absence, error) {
	var a absence.Absence
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.StartDate,
		&a.EndDate,
		&a.AbsenceType,
		&a.SubstituteID,
		&a.BookedDate,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

func (r *absenceRepositoryImpl) Create(ctx context.Context, a absence.Absence) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO absences (
			id, user_id, start_date, end_date, absence_type, substitute_id, booked_date,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
		)
		RETURNING ` + absenceColumns

	id := a.ID
	if id == "" {
		id = uuid.NewString()
	}

	return scanAbsence(q.QueryRow(ctx, query,
		id, a.UserID, a.StartDate, a.EndDate, a.AbsenceType, a.SubstituteID, a.BookedDate,
	))
}

func (r *absenceRepositoryImpl) GetByID(ctx context.Context, id string) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + absenceColumns + ` FROM absences WHERE id = $1`

	a, err := scanAbsence(q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return absence.Absence{}, absence.ErrAbsenceNotFound
	}
	return a, err
}

func (r *absenceRepositoryImpl) GetByIDAndUser(ctx context.Context, id, userID string) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + absenceColumns + ` FROM absences WHERE id = $1 AND user_id = $2`

	a, err := scanAbsence(q.QueryRow(ctx, query, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return absence.Absence{}, absence.ErrAbsenceNotFound
	}
	return a, err
}

func (r *absenceRepositoryImpl) GetByUserID(ctx context.Context, userID string) ([]absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + absenceColumns + ` FROM absences WHERE user_id = $1 ORDER BY start_date`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAbsences(rows)
}

func (r *absenceRepositoryImpl) GetByUserWithinRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + absenceColumns + `
		FROM absences
		WHERE user_id = $1
		  AND start_date <= $3
		  AND end_date >= $2
		ORDER BY start_date
	`

	rows, err := q.Query(ctx, query, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAbsences(rows)
}

func (r *absenceRepositoryImpl) HasOverlapping(ctx context.Context, userID string, startDate, endDate time.Time, ignoreID *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	// Closed-interval intersection: s1 <= e2 AND s2 <= e1.
	query := `
		SELECT EXISTS (
			SELECT 1 FROM absences
			WHERE user_id = $1
			  AND start_date <= $3
			  AND end_date >= $2
			  AND ($4::uuid IS NULL OR id != $4)
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, userID, startDate, endDate, ignoreID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *absenceRepositoryImpl) Update(ctx context.Context, a absence.Absence) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE absences
		SET start_date = $2, end_date = $3, absence_type = $4, substitute_id = $5, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query, a.ID, a.StartDate, a.EndDate, a.AbsenceType, a.SubstituteID)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return absence.ErrAbsenceNotFound
	}
	return nil
}

func (r *absenceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM absences WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return absence.ErrAbsenceNotFound
	}
	return nil
}

// LockUser takes a transaction-scoped advisory lock keyed by the user
// id. Two writers for the same user serialize here, so the overlap
// check that follows observes any row committed by the winner.
func (r *absenceRepositoryImpl) LockUser(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, userID)
	return err
}

func collectAbsences(rows pgx.Rows) ([]absence.Absence, error) {
	var absences []absence.Absence
	for rows.Next() {
		var a absence.Absence
		err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.StartDate,
			&a.EndDate,
			&a.AbsenceType,
			&a.SubstituteID,
			&a.BookedDate,
			&a.CreatedAt,
			&a.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		absences = append(absences, a)
	}
	return absences, rows.Err()
}
