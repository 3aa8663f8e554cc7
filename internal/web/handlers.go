package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/DaniarKamaev/Tasks/internal/core"
)

const maxTitleSize = 4 << 10 // titles and descriptions are short text

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsCompleted *bool   `json:"is_completed"`
}

// listFiltered reads the current filtered set through the pull accessors.
func (s *Server) listFiltered() []core.Task {
	n := s.svc.NumberOfTodos()
	tasks := make([]core.Task, 0, n)
	for i := 0; i < n; i++ {
		task, err := s.svc.Todo(i)
		if err != nil {
			break // the set shrank under us; serve what we have
		}
		tasks = append(tasks, task)
	}
	return tasks
}

// filteredIndexOf resolves a task id to its position in the filtered set.
func (s *Server) filteredIndexOf(id int) (int, bool) {
	for i, task := range s.listFiltered() {
		if task.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (s *Server) handleListTasks(c *gin.Context) {
	tasks := s.listFiltered()
	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"count": len(tasks),
	})
}

func (s *Server) handleGetTask(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	task, err := s.svc.TodoByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Title) > maxTitleSize || len(req.Description) > maxTitleSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "title or description too long"})
		return
	}

	task, err := s.svc.AddNewTodo(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := s.svc.TodoByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.IsCompleted != nil {
		task.IsCompleted = *req.IsCompleted
	}

	if err := s.svc.UpdateTodo(c.Request.Context(), task); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	index, ok := s.filteredIndexOf(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	if err := s.svc.DeleteTodo(c.Request.Context(), index); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleToggleTask(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	index, ok := s.filteredIndexOf(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	if err := s.svc.ToggleCompletion(c.Request.Context(), index); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	task, err := s.svc.TodoByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleSearch(c *gin.Context) {
	query := c.Query("q")

	s.svc.SearchTodos(c.Request.Context(), query)
	tasks := s.listFiltered()
	c.JSON(http.StatusOK, gin.H{
		"query": query,
		"tasks": tasks,
		"count": len(tasks),
	})
}
