// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev user (dev) already exists.
package main

import (
	"context"
	"log"

	"secrets-portal/internal/config"
	"secrets-portal/internal/db"
	identityrepo "secrets-portal/internal/identity/repository"
	identityservice "secrets-portal/internal/identity/service"
	"secrets-portal/internal/security"
)

const (
	devUsername = "dev"
	devPassword = "password123"
	devSecret   = "I seed databases for a living"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	repo := identityrepo.NewPostgresRepository(conn)

	existing, err := repo.GetByLocalUsername(ctx, devUsername)
	if err != nil {
		log.Fatalf("seed: lookup dev user: %v", err)
	}
	if existing != nil {
		log.Printf("seed: dev user %q already exists; nothing to do", devUsername)
		return
	}

	local := identityservice.NewLocalStrategy(repo, security.NewHasher(cfg.BcryptCost))
	ident, err := local.Register(ctx, devUsername, devPassword)
	if err != nil {
		log.Fatalf("seed: register dev user: %v", err)
	}
	if err := identityservice.NewSecretService(repo).Submit(ctx, ident.ID, devSecret); err != nil {
		log.Fatalf("seed: submit dev secret: %v", err)
	}
	log.Printf("seed: created dev user %q (password %q) with a sample secret", devUsername, devPassword)
}
