package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"lemur/domain/core"
	"lemur/ports"
)

// contextRepository implements the ContextRepository interface
type contextRepository struct {
	db *sqlx.DB
}

// NewContextRepository creates a new context repository
func NewContextRepository(db *sqlx.DB) ports.ContextRepository {
	return &contextRepository{db: db}
}

func (r *contextRepository) Upsert(ctx context.Context, projectID core.ID, text string) error {
	query := `INSERT INTO contexts (project_id, context_text, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (project_id)
		DO UPDATE SET context_text = EXCLUDED.context_text, updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, projectID, text); err != nil {
		return fmt.Errorf("failed to upsert context: %w", err)
	}
	return nil
}

func (r *contextRepository) Get(ctx context.Context, projectID core.ID) (string, error) {
	var text string
	err := r.db.GetContext(ctx, &text, `SELECT context_text FROM contexts WHERE project_id = $1`, projectID)
	if err == sql.ErrNoRows {
		return "", nil // absent context is empty, not an error
	}
	if err != nil {
		return "", fmt.Errorf("failed to get context: %w", err)
	}
	return text, nil
}
