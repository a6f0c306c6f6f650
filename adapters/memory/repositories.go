// Package memory provides in-process repository implementations used when
// no DATABASE_URL is configured and in tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"lemur/domain/core"
	"lemur/domain/project"
	"lemur/ports"
)

// ProjectRepository is a map-backed ports.ProjectRepository
type ProjectRepository struct {
	mu       sync.RWMutex
	projects map[core.ID]*project.Project
}

func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{projects: make(map[core.ID]*project.Project)}
}

func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.projects[p.ID]; exists {
		return fmt.Errorf("project already exists: %s", p.ID)
	}
	clone := *p
	r.projects[p.ID] = &clone
	return nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id core.ID) (*project.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, fmt.Errorf("project not found: %s", id)
	}
	clone := *p
	return &clone, nil
}

func (r *ProjectRepository) List(ctx context.Context, limit, offset int) ([]*project.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*project.Project, 0, len(r.projects))
	for _, p := range r.projects {
		clone := *p
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if offset >= len(all) {
		return []*project.Project{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id core.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return fmt.Errorf("project not found: %s", id)
	}
	delete(r.projects, id)
	return nil
}

// FileRepository is a map-backed ports.FileRepository
type FileRepository struct {
	mu    sync.RWMutex
	files map[core.ID]*project.File
}

func NewFileRepository() *FileRepository {
	return &FileRepository{files: make(map[core.ID]*project.File)}
}

func (r *FileRepository) Create(ctx context.Context, f *project.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.files[f.ID]; exists {
		return fmt.Errorf("file already exists: %s", f.ID)
	}
	clone := *f
	r.files[f.ID] = &clone
	return nil
}

func (r *FileRepository) GetByID(ctx context.Context, id core.ID) (*project.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.files[id]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", id)
	}
	clone := *f
	return &clone, nil
}

func (r *FileRepository) GetByProject(ctx context.Context, projectID core.ID) ([]*project.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var files []*project.File
	for _, f := range r.files {
		if f.ProjectID == projectID {
			clone := *f
			files = append(files, &clone)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].UploadedAt.After(files[j].UploadedAt) })
	return files, nil
}

func (r *FileRepository) GetCurrent(ctx context.Context, projectID core.ID) (*project.File, error) {
	files, err := r.GetByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files uploaded for project: %s", projectID)
	}
	return files[0], nil
}

func (r *FileRepository) Delete(ctx context.Context, id core.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[id]; !ok {
		return fmt.Errorf("file not found: %s", id)
	}
	delete(r.files, id)
	return nil
}

// ContextRepository is a map-backed ports.ContextRepository
type ContextRepository struct {
	mu       sync.RWMutex
	contexts map[core.ID]string
}

func NewContextRepository() *ContextRepository {
	return &ContextRepository{contexts: make(map[core.ID]string)}
}

func (r *ContextRepository) Upsert(ctx context.Context, projectID core.ID, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contexts[projectID] = text
	return nil
}

func (r *ContextRepository) Get(ctx context.Context, projectID core.ID) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.contexts[projectID], nil
}

// ChatRepository is a slice-backed ports.ChatRepository
type ChatRepository struct {
	mu       sync.RWMutex
	messages map[core.ID][]*project.ChatMessage
}

func NewChatRepository() *ChatRepository {
	return &ChatRepository{messages: make(map[core.ID][]*project.ChatMessage)}
}

func (r *ChatRepository) Append(ctx context.Context, msg *project.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *msg
	r.messages[msg.ProjectID] = append(r.messages[msg.ProjectID], &clone)
	return nil
}

func (r *ChatRepository) GetByProject(ctx context.Context, projectID core.ID, limit int) ([]*project.ChatMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := r.messages[projectID]
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	out := make([]*project.ChatMessage, len(history))
	for i, m := range history {
		clone := *m
		out[i] = &clone
	}
	return out, nil
}

// Interface checks
var (
	_ ports.ProjectRepository = (*ProjectRepository)(nil)
	_ ports.FileRepository    = (*FileRepository)(nil)
	_ ports.ContextRepository = (*ContextRepository)(nil)
	_ ports.ChatRepository    = (*ChatRepository)(nil)
)
