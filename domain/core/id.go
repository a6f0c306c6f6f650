package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID is a domain identifier
type ID string

// NewID creates a unique identifier. UUID v7 keeps IDs time-ordered and
// sortable; v4 is the fallback when v7 generation fails.
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// ProjectID is an ID known to name a project
type ProjectID ID

func (id ProjectID) String() string { return ID(id).String() }

// ParseProjectID validates a raw path or query value as a project ID
func ParseProjectID(s string) (ProjectID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("project ID cannot be empty")
	}
	return ProjectID(s), nil
}
