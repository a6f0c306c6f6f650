package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lemur/domain/core"
	"lemur/domain/project"
)

func TestProjectRepository_CreateAndGet(t *testing.T) {
	repo := NewProjectRepository()
	ctx := context.Background()

	p := project.NewProject("sales analysis", "Q3 numbers")
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Description, got.Description)

	// Mutating the returned copy must not reach the store
	got.Name = "changed"
	again, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "sales analysis", again.Name)
}

func TestProjectRepository_DuplicateCreateFails(t *testing.T) {
	repo := NewProjectRepository()
	p := project.NewProject("one", "")
	require.NoError(t, repo.Create(context.Background(), p))
	assert.Error(t, repo.Create(context.Background(), p))
}

func TestProjectRepository_ListNewestFirst(t *testing.T) {
	repo := NewProjectRepository()
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		p := project.NewProject(fmt.Sprintf("p%d", i), "")
		p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(ctx, p))
	}

	all, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "p4", all[0].Name)
	assert.Equal(t, "p0", all[4].Name)

	page, err := repo.List(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "p3", page[0].Name)
	assert.Equal(t, "p2", page[1].Name)

	empty, err := repo.List(ctx, 10, 99)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestProjectRepository_Delete(t *testing.T) {
	repo := NewProjectRepository()
	ctx := context.Background()

	p := project.NewProject("temp", "")
	require.NoError(t, repo.Create(ctx, p))
	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err := repo.GetByID(ctx, p.ID)
	assert.Error(t, err)
	assert.Error(t, repo.Delete(ctx, p.ID))
}

func newFile(projectID core.ID, name string, uploadedAt time.Time) *project.File {
	return &project.File{
		ID:               core.NewID(),
		ProjectID:        projectID,
		OriginalFilename: name,
		UploadedAt:       uploadedAt,
	}
}

func TestFileRepository_GetCurrentIsNewest(t *testing.T) {
	repo := NewFileRepository()
	ctx := context.Background()
	projectID := core.NewID()

	base := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, newFile(projectID, "first.csv", base)))
	require.NoError(t, repo.Create(ctx, newFile(projectID, "second.csv", base.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, newFile(core.NewID(), "other.csv", base.Add(2*time.Hour))))

	current, err := repo.GetCurrent(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, "second.csv", current.OriginalFilename)

	files, err := repo.GetByProject(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "second.csv", files[0].OriginalFilename)
}

func TestFileRepository_GetCurrentEmpty(t *testing.T) {
	repo := NewFileRepository()
	_, err := repo.GetCurrent(context.Background(), core.NewID())
	assert.Error(t, err)
}

func TestContextRepository_Upsert(t *testing.T) {
	repo := NewContextRepository()
	ctx := context.Background()
	projectID := core.NewID()

	// Missing context reads as empty, not an error
	text, err := repo.Get(ctx, projectID)
	require.NoError(t, err)
	assert.Empty(t, text)

	require.NoError(t, repo.Upsert(ctx, projectID, "retail transactions"))
	require.NoError(t, repo.Upsert(ctx, projectID, "retail transactions for Q3"))

	text, err = repo.Get(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, "retail transactions for Q3", text)
}

func TestChatRepository_AppendAndWindow(t *testing.T) {
	repo := NewChatRepository()
	ctx := context.Background()
	projectID := core.NewID()

	base := time.Now().UTC()
	for i := 0; i < 6; i++ {
		msg := &project.ChatMessage{
			ID:        core.NewID(),
			ProjectID: projectID,
			Role:      project.RoleUser,
			Content:   fmt.Sprintf("message %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.Append(ctx, msg))
	}

	all, err := repo.GetByProject(ctx, projectID, 0)
	require.NoError(t, err)
	require.Len(t, all, 6)
	assert.Equal(t, "message 0", all[0].Content)

	// Limit keeps the most recent turns, still in chronological order
	recent, err := repo.GetByProject(ctx, projectID, 4)
	require.NoError(t, err)
	require.Len(t, recent, 4)
	assert.Equal(t, "message 2", recent[0].Content)
	assert.Equal(t, "message 5", recent[3].Content)
}

func TestChatRepository_IsolatedByProject(t *testing.T) {
	repo := NewChatRepository()
	ctx := context.Background()

	a, b := core.NewID(), core.NewID()
	require.NoError(t, repo.Append(ctx, &project.ChatMessage{ID: core.NewID(), ProjectID: a, Role: project.RoleUser, Content: "hi"}))

	other, err := repo.GetByProject(ctx, b, 0)
	require.NoError(t, err)
	assert.Empty(t, other)
}
