package ports

import (
	"context"
	"io"
)

// FileStorage abstracts where uploaded file bytes live
type FileStorage interface {
	// Store persists the stream under a unique name derived from filename
	// and returns the storage path.
	Store(ctx context.Context, r io.Reader, filename string) (string, error)
	GetReader(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
}
