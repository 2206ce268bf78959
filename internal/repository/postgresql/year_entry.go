package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kostadin12/sis-api/internal/domain/calendar"
	"github.com/kostadin12/sis-api/internal/pkg/database"
)

type yearEntryRepositoryImpl struct {
	db *database.DB
}

func NewYearEntryRepository(db *database.DB) calendar.YearEntryRepository {
	return &yearEntryRepositoryImpl{db: db}
}

func (r *yearEntryRepositoryImpl) GetByYear(ctx context.Context, year int) (calendar.YearEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, year, non_working_days, created_at, updated_at
		FROM year_entries
		WHERE year = $1
	`

	var entry calendar.YearEntry
	var days []time.Time
	err := q.QueryRow(ctx, query, year).Scan(&entry.ID, &entry.Year, &days, &entry.CreatedAt, &entry.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return calendar.YearEntry{}, calendar.ErrYearNotFound
	}
	if err != nil {
		return calendar.YearEntry{}, err
	}
	entry.NonWorkingDays = days
	return entry, nil
}

func (r *yearEntryRepositoryImpl) Upsert(ctx context.Context, entry calendar.YearEntry) (calendar.YearEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO year_entries (id, year, non_working_days, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (year) DO UPDATE
		SET non_working_days = EXCLUDED.non_working_days, updated_at = NOW()
		RETURNING id, year, non_working_days, created_at, updated_at
	`

	id := entry.ID
	if id == "" {
		id = uuid.NewString()
	}

	var saved calendar.YearEntry
	var days []time.Time
	err := q.QueryRow(ctx, query, id, entry.Year, entry.NonWorkingDays).
		Scan(&saved.ID, &saved.Year, &days, &saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		return calendar.YearEntry{}, err
	}
	saved.NonWorkingDays = days
	return saved, nil
}

func (r *yearEntryRepositoryImpl) DeleteByYear(ctx context.Context, year int) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM year_entries WHERE year = $1`, year)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return calendar.ErrYearNotFound
	}
	return nil
}

func (r *yearEntryRepositoryImpl) DeleteOlderThan(ctx context.Context, year int) (int64, error) {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM year_entries WHERE year < $1`, year)
	if err != nil {
		return 0, err
	}
	return commandTag.RowsAffected(), nil
}
