package web

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/DaniarKamaev/Tasks/internal/core"
	"github.com/DaniarKamaev/Tasks/internal/logging"
)

// TaskProvider is the service surface the API exposes: the pull-based
// accessors plus the mutating commands.
// Implementations: core.TaskService
type TaskProvider interface {
	AddNewTodo(ctx context.Context, title, description string) (core.Task, error)
	UpdateTodo(ctx context.Context, task core.Task) error
	DeleteTodo(ctx context.Context, index int) error
	ToggleCompletion(ctx context.Context, index int) error
	SearchTodos(ctx context.Context, query string)
	NumberOfTodos() int
	Todo(index int) (core.Task, error)
	TodoByID(id int) (core.Task, error)
}

// Server is the JSON API server over the task service.
type Server struct {
	svc    TaskProvider
	router *gin.Engine
	log    *logrus.Logger
}

// NewServer creates a new API server.
func NewServer(svc TaskProvider, log *logrus.Logger) *Server {
	if log == nil {
		log = logging.Discard()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger(log))

	s := &Server{
		svc:    svc,
		router: router,
		log:    log,
	}

	api := router.Group("/api")
	{
		api.GET("/tasks", s.handleListTasks)
		api.GET("/tasks/:id", s.handleGetTask)
		api.POST("/tasks", s.handleCreateTask)
		api.PUT("/tasks/:id", s.handleUpdateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)
		api.POST("/tasks/:id/toggle", s.handleToggleTask)
		api.GET("/search", s.handleSearch)
	}

	return s
}

// Run starts the API server.
func (s *Server) Run(addr string) error {
	s.log.WithField("addr", addr).Info("starting task API server")
	return s.router.Run(addr)
}
