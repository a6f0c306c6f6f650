package chat

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"lemur/adapters/llm"
	"lemur/adapters/memory"
	"lemur/domain/core"
	"lemur/domain/project"
	"lemur/domain/table"
	"lemur/internal/logger"
	"lemur/internal/profile"
)

type stubLoader struct {
	tbl *table.Table
	err error
}

func (s *stubLoader) Load(ctx context.Context, f *project.File) (*table.Table, error) {
	return s.tbl, s.err
}

func fixtureService(t *testing.T, client *llm.MockLLMClient) (*Service, core.ID) {
	t.Helper()

	tbl, err := table.New([]table.Column{
		{Name: "amount", Values: []table.Value{
			table.NewNumericValue(10),
			table.NewNumericValue(20),
			table.NewNumericValue(10),
		}},
	})
	if err != nil {
		t.Fatalf("table.New: %v", err)
	}

	files := memory.NewFileRepository()
	contexts := memory.NewContextRepository()
	history := memory.NewChatRepository()

	projectID := core.NewID()
	prof := profile.NewProfiler().Profile(tbl)
	profJSON, err := json.Marshal(prof)
	if err != nil {
		t.Fatalf("marshal profile: %v", err)
	}
	file := &project.File{
		ID:               core.NewID(),
		ProjectID:        projectID,
		OriginalFilename: "amounts.csv",
		Profile:          profJSON,
		UploadedAt:       time.Now(),
	}
	if err := files.Create(context.Background(), file); err != nil {
		t.Fatalf("create file: %v", err)
	}

	svc := NewService(client, files, contexts, history, &stubLoader{tbl: tbl},
		"gpt-3.5-turbo", 1000, logger.NewDefault())
	return svc, projectID
}

func TestChat_PersistsBothTurns(t *testing.T) {
	client := &llm.MockLLMClient{Response: "The mean amount is 13.33."}
	svc, projectID := fixtureService(t, client)

	reply, err := svc.Chat(context.Background(), projectID, "What is the average amount?")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply.Response != "The mean amount is 13.33." {
		t.Errorf("Response = %q", reply.Response)
	}
	if !reply.Analytical {
		t.Error("Analytical = false for an average question")
	}
	if reply.ResponseHTML == "" {
		t.Error("ResponseHTML is empty")
	}

	msgs, err := svc.History(context.Background(), projectID, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("history = %d messages, want 2", len(msgs))
	}
	if msgs[0].Role != project.RoleUser || msgs[1].Role != project.RoleAssistant {
		t.Errorf("roles = %s/%s, want user/assistant", msgs[0].Role, msgs[1].Role)
	}
}

func TestChat_EmptyMessageRejected(t *testing.T) {
	svc, projectID := fixtureService(t, &llm.MockLLMClient{Response: "x"})

	if _, err := svc.Chat(context.Background(), projectID, ""); err == nil {
		t.Error("empty message accepted")
	}
}

func TestChat_LLMErrorNotPersisted(t *testing.T) {
	client := &llm.MockLLMClient{Error: errors.New("rate limited")}
	svc, projectID := fixtureService(t, client)

	if _, err := svc.Chat(context.Background(), projectID, "hello there"); err == nil {
		t.Fatal("expected an error from the failing client")
	}

	msgs, err := svc.History(context.Background(), projectID, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("failed turn persisted %d messages", len(msgs))
	}
}

func TestChat_SuggestionsReturned(t *testing.T) {
	client := &llm.MockLLMClient{Response: "There are two values with a correlation between them."}
	svc, projectID := fixtureService(t, client)

	reply, err := svc.Chat(context.Background(), projectID, "Describe the data")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if len(reply.Suggestions) == 0 {
		t.Error("no suggestions returned")
	}

	// The correlation keyword in the answer seeds a follow-up
	found := false
	for _, s := range reply.Suggestions {
		if s == "Can you visualize this relationship?" {
			found = true
		}
	}
	if !found {
		t.Errorf("correlation follow-up missing from %v", reply.Suggestions)
	}
}

func TestChat_WorksWithoutUpload(t *testing.T) {
	svc := NewService(&llm.MockLLMClient{Response: "hi"}, memory.NewFileRepository(),
		memory.NewContextRepository(), memory.NewChatRepository(), &stubLoader{},
		"gpt-3.5-turbo", 1000, logger.NewDefault())

	reply, err := svc.Chat(context.Background(), core.NewID(), "hello")
	if err != nil {
		t.Fatalf("Chat without upload: %v", err)
	}
	if reply.Response != "hi" {
		t.Errorf("Response = %q", reply.Response)
	}
	if len(reply.Suggestions) != 0 {
		t.Errorf("suggestions without a table: %v", reply.Suggestions)
	}
}
