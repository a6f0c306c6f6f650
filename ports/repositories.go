package ports

import (
	"context"

	"lemur/domain/core"
	"lemur/domain/project"
)

// ProjectRepository defines the interface for project storage operations
type ProjectRepository interface {
	Create(ctx context.Context, p *project.Project) error
	GetByID(ctx context.Context, id core.ID) (*project.Project, error)
	List(ctx context.Context, limit, offset int) ([]*project.Project, error)
	Delete(ctx context.Context, id core.ID) error
}

// FileRepository defines the interface for uploaded file records
type FileRepository interface {
	Create(ctx context.Context, f *project.File) error
	GetByID(ctx context.Context, id core.ID) (*project.File, error)
	GetByProject(ctx context.Context, projectID core.ID) ([]*project.File, error)
	// GetCurrent returns the most recently uploaded file for a project
	GetCurrent(ctx context.Context, projectID core.ID) (*project.File, error)
	Delete(ctx context.Context, id core.ID) error
}

// ContextRepository stores per-project business context text
type ContextRepository interface {
	Upsert(ctx context.Context, projectID core.ID, text string) error
	Get(ctx context.Context, projectID core.ID) (string, error)
}

// ChatRepository stores conversation history per project
type ChatRepository interface {
	Append(ctx context.Context, msg *project.ChatMessage) error
	GetByProject(ctx context.Context, projectID core.ID, limit int) ([]*project.ChatMessage, error)
}
