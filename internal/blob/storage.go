// Package blob stores uploaded file bytes on the local filesystem.
package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const defaultChunkSize = 1 << 20

// LocalFileStorage implements ports.FileStorage on a local directory
type LocalFileStorage struct {
	basePath  string
	chunkSize int
}

// NewLocalFileStorage creates storage rooted at basePath
func NewLocalFileStorage(basePath string) *LocalFileStorage {
	return &LocalFileStorage{basePath: basePath, chunkSize: defaultChunkSize}
}

// Store saves the stream under a unique name and returns its path
func (s *LocalFileStorage) Store(ctx context.Context, r io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}

	// Timestamp plus a short random suffix keeps repeat uploads of the
	// same file apart. The client-supplied name is reduced to its base so
	// path components in it cannot escape basePath.
	filename = filepath.Base(filename)
	ext := filepath.Ext(filename)
	baseName := filename[:len(filename)-len(ext)]
	timestamp := time.Now().Format("20060102_150405")
	uniqueName := fmt.Sprintf("%s_%s_%s%s", baseName, timestamp, uuid.New().String()[:8], ext)

	filePath := filepath.Join(s.basePath, uniqueName)

	destFile, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer destFile.Close()

	buf := make([]byte, s.chunkSize)
	if _, err := io.CopyBuffer(destFile, r, buf); err != nil {
		os.Remove(filePath) // Clean up on failure
		return "", fmt.Errorf("failed to copy file contents: %w", err)
	}

	return filePath, nil
}

// GetReader returns a reader for the stored file
func (s *LocalFileStorage) GetReader(ctx context.Context, path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Delete removes a file from storage
func (s *LocalFileStorage) Delete(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Exists checks if a file exists in storage
func (s *LocalFileStorage) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check file existence: %w", err)
	}
	return true, nil
}
