// Package main provides a CLI tool for seeding the initial admin account.
package main

import (
	"context"
	"fmt"
	"os"

	"stockledger/internal/domain/auth"
	"stockledger/internal/infrastructure/storage/postgres"
	"stockledger/internal/infrastructure/storage/postgres/auth_repo"
	"stockledger/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("ADMIN_PASSWORD environment variable is required")
	}

	userRepo := auth_repo.NewUserRepo(postgres.NewTxManager(pool))
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(os.Getenv("JWT_SECRET")))
	authService := auth.NewService(userRepo, jwtService)

	if existing, err := userRepo.GetByUsername(ctx, username); err == nil {
		log.Infow("admin user already exists", "user_id", existing.ID, "username", username)
		return
	}

	user, err := authService.Register(ctx, username, password, true)
	if err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	log.Infow("admin user created", "user_id", user.ID, "username", username)
}
