package handlers

import (
	"todo_backend/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB       *pgxpool.Pool
	TodoRepo *repository.TodoRepository
	UserRepo *repository.UserRepository
}

func NewHandler(db *pgxpool.Pool) *Handler {
	return &Handler{
		DB:       db,
		TodoRepo: repository.NewTodoRepository(db),
		UserRepo: repository.NewUserRepository(db),
	}
}
