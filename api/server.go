// Package api exposes the HTTP surface: project CRUD, uploads, profiles,
// context, chat, and suggestions.
package api

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"lemur/app"
	"lemur/internal/chat"
	"lemur/internal/logger"
)

// Server wires the gin engine to the application services
type Server struct {
	router  *gin.Engine
	service *app.Service
	chat    *chat.Service
	log     *logger.Logger
}

// NewServer creates a server and registers all routes
func NewServer(service *app.Service, chatService *chat.Service, log *logger.Logger, ginMode string) *Server {
	if ginMode != "" {
		gin.SetMode(ginMode)
	}

	s := &Server{
		router:  gin.Default(),
		service: service,
		chat:    chatService,
		log:     log,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	h := newHandler(s.service, s.chat, s.log)

	s.router.GET("/", h.Health())

	api := s.router.Group("/api")
	{
		api.POST("/projects", h.CreateProject())
		api.GET("/projects", h.ListProjects())
		api.GET("/projects/:id", h.GetProject())
		api.DELETE("/projects/:id", h.DeleteProject())

		api.POST("/projects/:id/upload", h.Upload())
		api.GET("/projects/:id/preview", h.Preview())
		api.GET("/projects/:id/profile", h.Profile())

		api.PUT("/projects/:id/context", h.SaveContext())
		api.GET("/projects/:id/context", h.GetContext())

		api.POST("/projects/:id/chat", h.Chat())
		api.GET("/projects/:id/chat", h.ChatHistory())
		api.GET("/projects/:id/suggestions", h.Suggestions())
	}
}

// Run starts serving on the given port, blocking until failure
func (s *Server) Run(port string) error {
	addr := fmt.Sprintf(":%s", port)
	s.log.Info("listening on %s", addr)
	return s.router.Run(addr)
}

// Router exposes the engine for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}
