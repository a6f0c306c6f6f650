package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"lemur/domain/core"
	"lemur/domain/project"
	"lemur/ports"
)

// chatRepository implements the ChatRepository interface
type chatRepository struct {
	db *sqlx.DB
}

// NewChatRepository creates a new chat history repository
func NewChatRepository(db *sqlx.DB) ports.ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Append(ctx context.Context, msg *project.ChatMessage) error {
	query := `INSERT INTO chat_history (id, project_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query, msg.ID, msg.ProjectID, msg.Role, msg.Content, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append chat message: %w", err)
	}
	return nil
}

// GetByProject returns the most recent messages in chronological order
func (r *chatRepository) GetByProject(ctx context.Context, projectID core.ID, limit int) ([]*project.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, project_id, role, content, created_at FROM (
			SELECT id, project_id, role, content, created_at
			FROM chat_history
			WHERE project_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC`

	messages := []*project.ChatMessage{}
	if err := r.db.SelectContext(ctx, &messages, query, projectID, limit); err != nil {
		return nil, fmt.Errorf("failed to get chat history: %w", err)
	}
	return messages, nil
}
