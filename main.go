package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskbook/config"
	"taskbook/config/database"
	"taskbook/internal/auth"
	"taskbook/internal/record/repository"
	"taskbook/internal/session"
	"taskbook/pkg/logger"
	"taskbook/router"
)

func main() {
	cfg, loaded := config.Load()
	logger.Init(cfg.LogLevel)
	defer logger.Sync()
	log := logger.Sugar

	if !loaded {
		log.Info("No .env file found, using environment variables from OS")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalw("could not connect to database", "error", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalw("migration failed", "error", err)
	}

	var store session.Store
	if cfg.RedisURL != "" {
		redisStore, err := session.NewRedisStore(cfg.RedisURL)
		if err != nil {
			log.Fatalw("could not connect to redis", "error", err)
		}
		defer redisStore.Close()
		store = redisStore
		log.Info("Sessions stored in redis")
	} else {
		store = session.NewMemoryStore()
		log.Warn("REDIS_URL not set, sessions are kept in memory")
	}

	verifier, err := auth.NewJWTVerifier(auth.Options{
		HMACSecret:   cfg.JWTSecret,
		PublicKeyPEM: cfg.JWTPublicKey,
		Issuer:       cfg.Issuer,
		Audience:     cfg.Audience,
		ClockSkew:    cfg.ClockSkew,
	})
	if err != nil {
		log.Fatalw("identity token verifier misconfigured", "error", err)
	}

	sessions := session.NewManager(verifier, store, cfg.SessionSecret, cfg.SessionTTL)
	handler := router.Setup(repository.NewRecordRepository(db), sessions, cfg)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Infow("Taskbook listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server error", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("graceful shutdown failed", "error", err)
	}
}
