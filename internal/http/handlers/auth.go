package handlers

import (
	"errors"
	"net/http"

	"todo_backend/internal/domain"
	"todo_backend/internal/logger"
	"todo_backend/internal/repository"
	"todo_backend/internal/service"

	"github.com/gin-gonic/gin"
)

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Signup registers a new user and issues a token. The insert and the
// token issuance are sequential; a token failure after the insert
// leaves the user row in place, so a retry lands on the conflict path.
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	if _, err := h.UserRepo.GetByEmail(ctx, req.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "User with this email already exists"})
		return
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		logger.Error("signup lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	hash, err := service.HashPassword(req.Password)
	if err != nil {
		logger.Error("password hashing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	user := &domain.User{Email: req.Email, HashedPassword: hash}
	if err := h.UserRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// lost the race against a concurrent signup
			c.JSON(http.StatusBadRequest, gin.H{"detail": "User with this email already exists"})
			return
		}
		logger.Error("create user failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	token, err := service.GenerateToken(user.Email)
	if err != nil {
		logger.Error("token generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  gin.H{"email": user.Email},
		"token": token,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	user, err := h.UserRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "User does not exist"})
			return
		}
		logger.Error("login lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	if !service.CheckPassword(user.HashedPassword, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect password"})
		return
	}

	token, err := service.GenerateToken(user.Email)
	if err != nil {
		logger.Error("token generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email": user.Email,
		"token": token,
	})
}
