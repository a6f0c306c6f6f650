// Package project holds the persistent records of the application:
// projects, uploaded files with their profiles, and chat history.
package project

import (
	"encoding/json"
	"time"

	"lemur/domain/core"
)

// Project groups uploaded files and conversations under one name
type Project struct {
	ID          core.ID   `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// NewProject creates a project with a fresh ID and timestamps
func NewProject(name, description string) *Project {
	now := time.Now().UTC()
	return &Project{
		ID:          core.NewID(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// File is one uploaded dataset belonging to a project. Profile holds the
// serialized profiling result so repeat reads never re-profile.
type File struct {
	ID               core.ID         `json:"id" db:"id"`
	ProjectID        core.ID         `json:"project_id" db:"project_id"`
	OriginalFilename string          `json:"original_filename" db:"original_filename"`
	StoragePath      string          `json:"storage_path" db:"storage_path"`
	SizeBytes        int64           `json:"size_bytes" db:"size_bytes"`
	RowCount         int             `json:"row_count" db:"row_count"`
	ColumnCount      int             `json:"column_count" db:"column_count"`
	Profile          json.RawMessage `json:"profile,omitempty" db:"profile"`
	UploadedAt       time.Time       `json:"uploaded_at" db:"uploaded_at"`
}

// ChatMessage is one stored turn of a project conversation
type ChatMessage struct {
	ID        core.ID   `json:"id" db:"id"`
	ProjectID core.ID   `json:"project_id" db:"project_id"`
	Role      string    `json:"role" db:"role"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Chat roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
