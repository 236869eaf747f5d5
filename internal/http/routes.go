package http

import (
	"time"

	"todo_backend/internal/config"
	"todo_backend/internal/http/handlers"
	"todo_backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, version string, cfg *config.Config) {
	h := handlers.NewHandler(db)
	healthHandler := handlers.NewHealthHandler(db, version)

	apiRateLimit, apiRateWindow := 60, time.Minute
	authRateLimit, authRateWindow := 5, time.Minute
	if cfg != nil {
		apiRateLimit, apiRateWindow = cfg.APIRateLimit, cfg.APIRateWindow
		authRateLimit, authRateWindow = cfg.AuthRateLimit, cfg.AuthRateWindow
	}

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// Auth endpoints get the tighter in-process limiter on top of the
	// shared one, matching their abuse profile.
	authRL := middleware.SimpleRateLimit(authRateLimit, authRateWindow)
	r.POST("/signup", middleware.RedisRateLimit(apiRateLimit, apiRateWindow), authRL, h.Signup)
	r.POST("/login", middleware.RedisRateLimit(apiRateLimit, apiRateWindow), authRL, h.Login)

	// Todo CRUD, scoped to the bearer token's email claim
	todos := r.Group("/todos")
	todos.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow), middleware.JWT())
	{
		todos.GET("", h.ListTodos)
		todos.GET("/:id", h.GetTodo)
		todos.POST("", h.CreateTodo)
		todos.PUT("/:id", h.UpdateTodo)
		todos.DELETE("/:id", h.DeleteTodo)
	}
}
