package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"lemur/app"
	"lemur/domain/core"
	"lemur/internal/chat"
	"lemur/internal/errors"
	"lemur/internal/logger"
	"lemur/internal/profile"
)

type handler struct {
	service *app.Service
	chat    *chat.Service
	log     *logger.Logger
}

func newHandler(service *app.Service, chatService *chat.Service, log *logger.Logger) *handler {
	return &handler{service: service, chat: chatService, log: log}
}

// statusFor maps application error codes onto HTTP statuses
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error("request failed: %v", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func projectID(c *gin.Context) (core.ID, bool) {
	id, err := core.ParseProjectID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return "", false
	}
	return core.ID(id), true
}

func (h *handler) Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "lemur",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	}
}

type createProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *handler) CreateProject() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		p, err := h.service.CreateProject(c.Request.Context(), req.Name, req.Description)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

func (h *handler) ListProjects() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

		projects, err := h.service.ListProjects(c.Request.Context(), limit, offset)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"projects": projects, "count": len(projects)})
	}
}

func (h *handler) GetProject() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := projectID(c)
		if !ok {
			return
		}
		p, err := h.service.GetProject(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func (h *handler) DeleteProject() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := projectID(c)
		if !ok {
			return
		}
		if err := h.service.DeleteProject(c.Request.Context(), id); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	}
}

func (h *handler) Upload() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := projectID(c)
		if !ok {
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field 'file' is required"})
			return
		}
		src, err := fileHeader.Open()
		if err != nil {
			h.fail(c, errors.Wrap(err, "failed to open upload"))
			return
		}
		defer src.Close()

		result, err := h.service.Upload(c.Request.Context(), id, src, fileHeader.Filename, fileHeader.Size)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func (h *handler) Preview() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := projectID(c)
		if !ok {
			return
		}
		rows, _ := strconv.Atoi(c.DefaultQuery("rows", "0"))

		records, columns, err := h.service.Preview(c.Request.Context(), id, rows)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"columns": columns,
			"rows":    records,
			"count":   len(records),
		})
	}
}

func (h *handler) Profile() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := projectID(c)
		if !ok {
			return
		}
		file, prof, err := h.service.CurrentProfile(c.Request.Context(), id)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"file_id":  file.ID,
			"filename": file.OriginalFilename,
			"profile":  prof,
		})
	}
}

type contextRequest struct {
	Content string `json:"content"`
}

func (h *handler) SaveContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := projectID(c)
		if !ok {
			return
		}
		var req contextRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := h.service.SaveContext(c.Request.Context(), id, req.Content); err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "saved", "context": req.Content})
	}
}

func (h *handler) GetContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := projectID(c)
		if !ok {
			return
		}
		text, err := h.service.GetContext(c.Request.Context(), id)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"context": text})
	}
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *handler) Chat() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := projectID(c)
		if !ok {
			return
		}
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
			return
		}
		if _, err := h.service.GetProject(c.Request.Context(), id); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}

		reply, err := h.chat.Chat(c.Request.Context(), id, req.Message)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, reply)
	}
}

func (h *handler) ChatHistory() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := projectID(c)
		if !ok {
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

		messages, err := h.chat.History(c.Request.Context(), id, limit)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": messages, "count": len(messages)})
	}
}

func (h *handler) Suggestions() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := projectID(c)
		if !ok {
			return
		}

		history, err := h.chat.History(c.Request.Context(), id, 0)
		if err != nil {
			h.fail(c, err)
			return
		}
		turns := make([]profile.ChatTurn, len(history))
		for i, m := range history {
			turns[i] = profile.ChatTurn{Role: m.Role, Content: m.Content}
		}

		suggestions, err := h.service.Suggestions(c.Request.Context(), id, turns)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
	}
}
