// Package app coordinates uploads, profiling, and retrieval across the
// repository, storage, and profiling layers.
package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"time"

	"golang.org/x/sync/semaphore"

	"lemur/adapters/ingest"
	"lemur/domain/core"
	"lemur/domain/project"
	"lemur/domain/table"
	"lemur/internal/errors"
	"lemur/internal/logger"
	"lemur/internal/profile"
	"lemur/ports"
)

// Service is the application facade the HTTP layer talks to
type Service struct {
	projects ports.ProjectRepository
	files    ports.FileRepository
	contexts ports.ContextRepository
	storage  ports.FileStorage
	reader   *ingest.Reader
	profiler *profile.Profiler
	log      *logger.Logger

	// profileSem bounds how many uploads profile at once; profiling is
	// CPU and memory heavy on wide tables.
	profileSem *semaphore.Weighted

	maxFileSize     int64
	previewRowLimit int
}

// Options tune service limits
type Options struct {
	MaxConcurrentProfiles int64
	MaxFileSize           int64
	PreviewRowLimit       int
	MaxSuggestions        int
}

// NewService wires the application service
func NewService(projects ports.ProjectRepository, files ports.FileRepository,
	contexts ports.ContextRepository, storage ports.FileStorage, log *logger.Logger, opts Options) *Service {
	if opts.MaxConcurrentProfiles < 1 {
		opts.MaxConcurrentProfiles = 4
	}
	if opts.PreviewRowLimit < 1 {
		opts.PreviewRowLimit = 100
	}
	if opts.MaxSuggestions < 1 {
		opts.MaxSuggestions = profile.DefaultMaxSuggestions
	}
	return &Service{
		projects:        projects,
		files:           files,
		contexts:        contexts,
		storage:         storage,
		reader:          ingest.NewReader(),
		profiler:        profile.NewProfilerWithMax(opts.MaxSuggestions),
		log:             log,
		profileSem:      semaphore.NewWeighted(opts.MaxConcurrentProfiles),
		maxFileSize:     opts.MaxFileSize,
		previewRowLimit: opts.PreviewRowLimit,
	}
}

// CreateProject makes and persists a new project
func (s *Service) CreateProject(ctx context.Context, name, description string) (*project.Project, error) {
	if name == "" {
		return nil, errors.InvalidInput("project name must not be empty")
	}
	p := project.NewProject(name, description)
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, errors.Wrap(err, "failed to create project")
	}
	s.log.Info("created project %s (%s)", p.ID, p.Name)
	return p, nil
}

// GetProject fetches one project
func (s *Service) GetProject(ctx context.Context, id core.ID) (*project.Project, error) {
	return s.projects.GetByID(ctx, id)
}

// ListProjects pages through projects newest first
func (s *Service) ListProjects(ctx context.Context, limit, offset int) ([]*project.Project, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.projects.List(ctx, limit, offset)
}

// DeleteProject removes a project, its stored files included
func (s *Service) DeleteProject(ctx context.Context, id core.ID) error {
	files, err := s.files.GetByProject(ctx, id)
	if err == nil {
		for _, f := range files {
			if err := s.storage.Delete(ctx, f.StoragePath); err != nil {
				s.log.Warn("failed to delete stored file %s: %v", f.StoragePath, err)
			}
		}
	}
	return s.projects.Delete(ctx, id)
}

// UploadResult is what an upload call hands back to the client
type UploadResult struct {
	File    *project.File    `json:"file"`
	Profile *profile.Profile `json:"profile"`
}

// Upload stores the stream, parses and profiles it, and records the file.
// The profile is computed once here and persisted with the record.
func (s *Service) Upload(ctx context.Context, projectID core.ID, src io.Reader, filename string, size int64) (*UploadResult, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, errors.NotFound("project")
	}
	if !s.reader.Supports(filename) {
		return nil, errors.InvalidInput("only .csv and .xlsx files are supported")
	}
	if s.maxFileSize > 0 && size > s.maxFileSize {
		return nil, errors.InvalidInput("file exceeds the maximum upload size")
	}

	// The stream is consumed twice, once to disk and once to parse
	var buf bytes.Buffer
	tee := io.TeeReader(src, &buf)

	path, err := s.storage.Store(ctx, tee, filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to store upload")
	}

	tbl, err := s.reader.Read(&buf, filename)
	if err != nil {
		if derr := s.storage.Delete(ctx, path); derr != nil {
			s.log.Warn("failed to clean up rejected upload %s: %v", path, derr)
		}
		return nil, err
	}

	if err := s.profileSem.Acquire(ctx, 1); err != nil {
		return nil, errors.Wrap(err, "profiling canceled")
	}
	started := time.Now()
	prof := s.profiler.Profile(tbl)
	s.profileSem.Release(1)
	s.log.Info("profiled %s: %d rows, %d columns in %s", filename, tbl.Rows(), tbl.NumColumns(), time.Since(started))

	profJSON, err := json.Marshal(prof)
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize profile")
	}

	f := &project.File{
		ID:               core.NewID(),
		ProjectID:        projectID,
		OriginalFilename: filename,
		StoragePath:      path,
		SizeBytes:        size,
		RowCount:         tbl.Rows(),
		ColumnCount:      tbl.NumColumns(),
		Profile:          profJSON,
		UploadedAt:       time.Now().UTC(),
	}
	if err := s.files.Create(ctx, f); err != nil {
		return nil, errors.Wrap(err, "failed to record upload")
	}

	return &UploadResult{File: f, Profile: prof}, nil
}

// Preview returns the first rows of the project's current file
func (s *Service) Preview(ctx context.Context, projectID core.ID, rows int) ([]map[string]any, []string, error) {
	if rows <= 0 || rows > s.previewRowLimit {
		rows = s.previewRowLimit
	}

	file, err := s.files.GetCurrent(ctx, projectID)
	if err != nil {
		return nil, nil, errors.NotFound("file")
	}
	tbl, err := s.Load(ctx, file)
	if err != nil {
		return nil, nil, err
	}

	if tbl.Rows() < rows {
		rows = tbl.Rows()
	}
	out := make([]map[string]any, rows)
	for i := 0; i < rows; i++ {
		out[i] = tbl.Row(i)
	}
	return out, tbl.ColumnNames(), nil
}

// CurrentProfile returns the stored profile of the project's current file
func (s *Service) CurrentProfile(ctx context.Context, projectID core.ID) (*project.File, *profile.Profile, error) {
	file, err := s.files.GetCurrent(ctx, projectID)
	if err != nil {
		return nil, nil, errors.NotFound("file")
	}
	if len(file.Profile) == 0 {
		return file, nil, errors.InternalError("file has no stored profile")
	}
	var prof profile.Profile
	if err := json.Unmarshal(file.Profile, &prof); err != nil {
		return file, nil, errors.Wrap(err, "failed to decode stored profile")
	}
	return file, &prof, nil
}

// Suggestions regenerates analysis suggestions for the current file
func (s *Service) Suggestions(ctx context.Context, projectID core.ID, history []profile.ChatTurn) ([]string, error) {
	file, prof, err := s.CurrentProfile(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tbl, err := s.Load(ctx, file)
	if err != nil {
		return nil, err
	}
	businessContext, err := s.contexts.Get(ctx, projectID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load project context")
	}
	return s.profiler.Suggest(tbl, prof, businessContext, history), nil
}

// SaveContext stores the project's business context text
func (s *Service) SaveContext(ctx context.Context, projectID core.ID, text string) error {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return errors.NotFound("project")
	}
	return s.contexts.Upsert(ctx, projectID, text)
}

// GetContext reads the project's business context text
func (s *Service) GetContext(ctx context.Context, projectID core.ID) (string, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return "", errors.NotFound("project")
	}
	return s.contexts.Get(ctx, projectID)
}

// Load re-parses a stored file into a table. Also serves chat.TableLoader.
func (s *Service) Load(ctx context.Context, f *project.File) (*table.Table, error) {
	rc, err := s.storage.GetReader(ctx, f.StoragePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open stored file")
	}
	defer rc.Close()
	return s.reader.Read(rc, f.OriginalFilename)
}
