package main

import (
	"context"
	"errors"
	"log"
	"os"

	"todo_backend/internal/db"
	"todo_backend/internal/domain"
	"todo_backend/internal/repository"
	"todo_backend/internal/service"
)

// Seeds a user for local testing and prints a bearer token.
// Expects DATABASE_URL and JWT_SECRET; TEST_EMAIL/TEST_PASSWORD override
// the defaults.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	email := os.Getenv("TEST_EMAIL")
	if email == "" {
		email = "test@example.com"
	}
	password := os.Getenv("TEST_PASSWORD")
	if password == "" {
		password = "secret1"
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	repo := repository.NewUserRepository(pool)
	ctx := context.Background()

	u, err := repo.GetByEmail(ctx, email)
	if err == nil {
		log.Printf("user already exists email=%s\n", u.Email)
	} else if errors.Is(err, repository.ErrUserNotFound) {
		hash, err := service.HashPassword(password)
		if err != nil {
			log.Fatalf("hash password failed: %v", err)
		}

		u = &domain.User{Email: email, HashedPassword: hash}
		if err := repo.Create(ctx, u); err != nil {
			log.Fatalf("create user failed: %v", err)
		}
		log.Printf("user created email=%s\n", u.Email)
	} else {
		log.Fatalf("lookup failed: %v", err)
	}

	service.InitJWT()
	token, err := service.GenerateToken(u.Email)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}
