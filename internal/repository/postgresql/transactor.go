package postgresql

import (
	"context"

	"github.com/kostadin12/sis-api/internal/pkg/database"
)

type transactorImpl struct {
	db *database.DB
}

// NewTransactor adapts WithTransaction for services that should not
// depend on this package directly.
func NewTransactor(db *database.DB) *transactorImpl {
	return &transactorImpl{db: db}
}

func (t *transactorImpl) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, t.db, fn)
}
