package handlers

import (
	"errors"
	"net/http"

	"todo_backend/internal/domain"
	"todo_backend/internal/http/middleware"
	"todo_backend/internal/logger"
	"todo_backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TodoRequest is the create/update body. Every field is taken as-is;
// an update is a full replace, omitted fields overwrite with "".
type TodoRequest struct {
	UserEmail string `json:"user_email"`
	Title     string `json:"title"`
	Progress  string `json:"progress"`
	Date      string `json:"date"`
}

// ListTodos returns all todos owned by the authenticated email.
func (h *Handler) ListTodos(c *gin.Context) {
	email, ok := middleware.UserEmail(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	todos, err := h.TodoRepo.ListByEmail(c.Request.Context(), email)
	if err != nil {
		logger.Error("list todos failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	if todos == nil {
		todos = []*domain.Todo{}
	}
	c.JSON(http.StatusOK, todos)
}

func (h *Handler) GetTodo(c *gin.Context) {
	email, ok := middleware.UserEmail(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	todo, err := h.TodoRepo.GetByID(c.Request.Context(), c.Param("id"), email)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "todo not found"})
			return
		}
		logger.Error("get todo failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	c.JSON(http.StatusOK, todo)
}

func (h *Handler) CreateTodo(c *gin.Context) {
	var req TodoRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	todo := &domain.Todo{
		ID:        uuid.New().String(),
		UserEmail: req.UserEmail,
		Title:     req.Title,
		Progress:  req.Progress,
		Date:      req.Date,
	}

	if err := h.TodoRepo.Create(c.Request.Context(), todo); err != nil {
		if errors.Is(err, repository.ErrDuplicateTitle) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "a todo with this title already exists"})
			return
		}
		logger.Error("create todo failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "todo created successfully",
		"id":      todo.ID,
	})
}

func (h *Handler) UpdateTodo(c *gin.Context) {
	var req TodoRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	todo := &domain.Todo{
		ID:        c.Param("id"),
		UserEmail: req.UserEmail,
		Title:     req.Title,
		Progress:  req.Progress,
		Date:      req.Date,
	}

	if err := h.TodoRepo.Update(c.Request.Context(), todo); err != nil {
		switch {
		case errors.Is(err, repository.ErrTodoNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "todo not found"})
		case errors.Is(err, repository.ErrDuplicateTitle):
			c.JSON(http.StatusBadRequest, gin.H{"error": "a todo with this title already exists"})
		default:
			logger.Error("update todo failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "todo updated successfully"})
}

func (h *Handler) DeleteTodo(c *gin.Context) {
	if err := h.TodoRepo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "todo not found"})
			return
		}
		logger.Error("delete todo failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "todo deleted successfully"})
}
