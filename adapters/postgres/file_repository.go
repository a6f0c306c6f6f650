package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"lemur/domain/core"
	"lemur/domain/project"
	"lemur/ports"
)

// fileRepository implements the FileRepository interface
type fileRepository struct {
	db *sqlx.DB
}

// NewFileRepository creates a new file repository
func NewFileRepository(db *sqlx.DB) ports.FileRepository {
	return &fileRepository{db: db}
}

const fileColumns = `id, project_id, original_filename, storage_path, size_bytes,
	row_count, column_count, profile, uploaded_at`

func (r *fileRepository) Create(ctx context.Context, f *project.File) error {
	query := `INSERT INTO files (` + fileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		f.ID, f.ProjectID, f.OriginalFilename, f.StoragePath, f.SizeBytes,
		f.RowCount, f.ColumnCount, []byte(f.Profile), f.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create file record: %w", err)
	}
	return nil
}

func (r *fileRepository) GetByID(ctx context.Context, id core.ID) (*project.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1`

	var f project.File
	if err := r.db.GetContext(ctx, &f, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("file not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	return &f, nil
}

func (r *fileRepository) GetByProject(ctx context.Context, projectID core.ID) ([]*project.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files
		WHERE project_id = $1
		ORDER BY uploaded_at DESC`

	files := []*project.File{}
	if err := r.db.SelectContext(ctx, &files, query, projectID); err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return files, nil
}

func (r *fileRepository) GetCurrent(ctx context.Context, projectID core.ID) (*project.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files
		WHERE project_id = $1
		ORDER BY uploaded_at DESC
		LIMIT 1`

	var f project.File
	if err := r.db.GetContext(ctx, &f, query, projectID); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no files uploaded for project: %s", projectID)
		}
		return nil, fmt.Errorf("failed to get current file: %w", err)
	}
	return &f, nil
}

func (r *fileRepository) Delete(ctx context.Context, id core.ID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("file not found: %s", id)
	}
	return nil
}
