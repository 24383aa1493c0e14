package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"secrets-portal/internal/config"
	"secrets-portal/internal/db"
	identityrepo "secrets-portal/internal/identity/repository"
	identityservice "secrets-portal/internal/identity/service"
	"secrets-portal/internal/security"
	"secrets-portal/internal/server"
	"secrets-portal/internal/session"
	"secrets-portal/internal/telemetry/otel"
	"secrets-portal/internal/web"
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
	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "secrets-portal", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	privateKey, err := security.ParsePrivateKey(cfg.SessionPrivateKey)
	if err != nil {
		log.Fatalf("session keys: SESSION_PRIVATE_KEY: %v", err)
	}
	publicKey, err := security.ParsePublicKey(cfg.SessionPublicKey)
	if err != nil {
		log.Fatalf("session keys: SESSION_PUBLIC_KEY: %v", err)
	}

	tokens := security.NewTokenProvider(privateKey, publicKey, cfg.SessionIssuer, cfg.SessionTTLDuration())
	sessions := session.NewManager(tokens)
	hasher := security.NewHasher(cfg.BcryptCost)
	repo := identityrepo.NewPostgresRepository(conn)

	router := server.NewRouter(server.Deps{
		Sessions: sessions,
		Local:    identityservice.NewLocalStrategy(repo, hasher),
		Google:   identityservice.NewGoogleStrategy(repo, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleCallbackURL),
		Secrets:  identityservice.NewSecretService(repo),
		Views:    web.NewRenderer(),
		Events:   otel.NewEventEmitter(providers.LoggerProvider),
		Health:   conn,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
