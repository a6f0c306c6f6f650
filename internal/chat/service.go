// Package chat implements the conversational layer over profiled datasets.
package chat

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"lemur/domain/core"
	"lemur/domain/project"
	"lemur/domain/table"
	"lemur/internal/errors"
	"lemur/internal/logger"
	"lemur/internal/profile"
	"lemur/ports"
)

const historyWindow = 20

// TableLoader rebuilds the parsed table for a stored file
type TableLoader interface {
	Load(ctx context.Context, f *project.File) (*table.Table, error)
}

// Service runs chat turns: context assembly, completion, persistence
type Service struct {
	llm       ports.LLMClient
	files     ports.FileRepository
	contexts  ports.ContextRepository
	history   ports.ChatRepository
	loader    TableLoader
	suggester *profile.Suggester
	log       *logger.Logger

	model     string
	maxTokens int
}

// NewService wires a chat service
func NewService(llm ports.LLMClient, files ports.FileRepository, contexts ports.ContextRepository,
	history ports.ChatRepository, loader TableLoader, model string, maxTokens int, log *logger.Logger) *Service {
	return &Service{
		llm:       llm,
		files:     files,
		contexts:  contexts,
		history:   history,
		loader:    loader,
		suggester: profile.NewSuggester(profile.DefaultMaxSuggestions),
		log:       log,
		model:     model,
		maxTokens: maxTokens,
	}
}

// Reply is the result of one chat turn
type Reply struct {
	Response     string    `json:"response"`
	ResponseHTML string    `json:"response_html"`
	Analytical   bool      `json:"analytical"`
	Suggestions  []string  `json:"suggestions"`
	Timestamp    time.Time `json:"timestamp"`
}

// Chat answers one user message for a project and persists both turns
func (s *Service) Chat(ctx context.Context, projectID core.ID, message string) (*Reply, error) {
	if message == "" {
		return nil, errors.InvalidInput("message must not be empty")
	}

	businessContext, err := s.contexts.Get(ctx, projectID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load project context")
	}

	// A project without an upload still chats, just without a data digest
	var (
		tbl      *table.Table
		prof     *profile.Profile
		filename string
	)
	if file, err := s.files.GetCurrent(ctx, projectID); err == nil {
		filename = file.OriginalFilename
		if len(file.Profile) > 0 {
			var p profile.Profile
			if err := json.Unmarshal(file.Profile, &p); err != nil {
				s.log.Warn("stored profile for file %s is unreadable: %v", file.ID, err)
			} else {
				prof = &p
			}
		}
		if tbl, err = s.loader.Load(ctx, file); err != nil {
			s.log.Warn("could not reload table for file %s: %v", file.ID, err)
			tbl = nil
		}
	}

	systemContext := BuildSystemContext(businessContext, filename, tbl, prof)

	past, err := s.history.GetByProject(ctx, projectID, historyWindow)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load chat history")
	}

	messages := make([]ports.ChatMessage, 0, len(past)+2)
	messages = append(messages, ports.ChatMessage{Role: "system", Content: systemContext})
	for _, m := range past {
		messages = append(messages, ports.ChatMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, ports.ChatMessage{Role: project.RoleUser, Content: message})

	s.log.Info("chat request for project %s (%d history turns)", projectID, len(past))
	answer, err := s.llm.ChatCompletion(ctx, s.model, messages, s.maxTokens)
	if err != nil {
		return nil, errors.Wrap(err, "chat completion failed")
	}

	now := time.Now().UTC()
	userMsg := &project.ChatMessage{
		ID:        core.NewID(),
		ProjectID: projectID,
		Role:      project.RoleUser,
		Content:   message,
		CreatedAt: now,
	}
	aiMsg := &project.ChatMessage{
		ID:        core.NewID(),
		ProjectID: projectID,
		Role:      project.RoleAssistant,
		Content:   answer,
		CreatedAt: now.Add(time.Millisecond), // assistant sorts after the question
	}
	if err := s.history.Append(ctx, userMsg); err != nil {
		return nil, errors.Wrap(err, "failed to persist user message")
	}
	if err := s.history.Append(ctx, aiMsg); err != nil {
		return nil, errors.Wrap(err, "failed to persist assistant message")
	}

	suggestions := s.nextSuggestions(tbl, prof, businessContext, past, message, answer)

	return &Reply{
		Response:     answer,
		ResponseHTML: RenderMarkdown(answer),
		Analytical:   IsAnalyticalQuery(message),
		Suggestions:  suggestions,
		Timestamp:    now,
	}, nil
}

// History returns the stored conversation in chronological order
func (s *Service) History(ctx context.Context, projectID core.ID, limit int) ([]*project.ChatMessage, error) {
	return s.history.GetByProject(ctx, projectID, limit)
}

// nextSuggestions regenerates the suggestion list for the turn just taken
func (s *Service) nextSuggestions(tbl *table.Table, prof *profile.Profile, businessContext string,
	past []*project.ChatMessage, userMessage, answer string) []string {
	if tbl == nil {
		return []string{}
	}

	turns := make([]profile.ChatTurn, 0, len(past)+1)
	for _, m := range past {
		turns = append(turns, profile.ChatTurn{Role: m.Role, Content: m.Content})
	}
	turns = append(turns, profile.ChatTurn{Role: project.RoleUser, Content: userMessage})

	base := s.suggester.Generate(tbl, prof, businessContext, turns)
	return s.suggester.UpdateAfterChat(base, userMessage, answer)
}

// RenderMarkdown converts a markdown answer to HTML for direct embedding
// by a frontend. Raw HTML in the source is skipped.
func RenderMarkdown(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(md))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return string(markdown.Render(doc, renderer))
}
