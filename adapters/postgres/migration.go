// Package postgres implements the repository ports on PostgreSQL via sqlx.
package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"lemur/internal/errors"
)

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewMigrationRunner creates a new migration runner
func NewMigrationRunner() *MigrationRunner {
	return &MigrationRunner{version: "1.0.0"}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in dependency order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createProjectsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create projects table")
	}
	if err := r.createFilesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create files table")
	}
	if err := r.createContextsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create contexts table")
	}
	if err := r.createChatHistoryTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create chat_history table")
	}
	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}
	return nil
}

func (r *MigrationRunner) createProjectsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS projects (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createFilesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS files (
			id UUID PRIMARY KEY,
			project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			original_filename VARCHAR(512) NOT NULL,
			storage_path TEXT NOT NULL,
			size_bytes BIGINT NOT NULL DEFAULT 0,
			row_count INTEGER NOT NULL DEFAULT 0,
			column_count INTEGER NOT NULL DEFAULT 0,
			profile JSONB,
			uploaded_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createContextsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS contexts (
			project_id UUID PRIMARY KEY REFERENCES projects(id) ON DELETE CASCADE,
			context_text TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createChatHistoryTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS chat_history (
			id UUID PRIMARY KEY,
			project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			role VARCHAR(20) NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	statements := []string{
		`CREATE INDEX IF NOT EXISTS idx_files_project_id ON files(project_id)`,
		`CREATE INDEX IF NOT EXISTS idx_files_uploaded_at ON files(uploaded_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_history_project_id ON chat_history(project_id)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_history_created_at ON chat_history(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
