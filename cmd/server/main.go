package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/nano-social/backend/internal/handlers"
	"github.com/anonto42/nano-social/backend/internal/router"
	"github.com/anonto42/nano-social/backend/internal/seed"
	"github.com/anonto42/nano-social/backend/internal/store"
	"github.com/anonto42/nano-social/backend/pkg/config"
	"github.com/anonto42/nano-social/backend/pkg/firebase"
	"github.com/anonto42/nano-social/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/spf13/pflag"
)

func main() {
	// Load configuration
	cfg := config.Load()
	flagSet := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	cfg.AddFlags(flagSet)
	_ = flagSet.Parse(os.Args[1:])
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize the record store
	backend, err := config.OpenBackend(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open store backend: %v", err)
	}
	codec, err := store.CodecByName(cfg.Codec)
	if err != nil {
		log.Fatalf("Invalid store codec: %v", err)
	}
	validator := validators.NewValidator()
	s, err := store.Open(ctx, backend, store.Options{
		Codec:       codec,
		Validate:    validator.Engine(),
		Logger:      logger,
		BatchWrites: cfg.BatchWrites,
	})
	if err != nil {
		log.Fatalf("Failed to load record store: %v", err)
	}
	if q := s.Quarantined(); len(q) > 0 {
		logger.Warn("store opened with quarantined records", "count", len(q))
	}

	if cfg.SeedDemo {
		report, err := seed.Install(ctx, s)
		if err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
		logger.Info("demo data installed",
			"users", report.Users, "posts", report.Posts,
			"messages", report.Messages, "notifications", report.Notifications)
	}

	flusherDone := make(chan struct{})
	if cfg.BatchWrites {
		go func() {
			defer close(flusherDone)
			s.RunFlusher(ctx, cfg.FlushInterval)
		}()
	} else {
		close(flusherDone)
	}

	// Initialize Firebase; social login stays disabled without credentials
	var verifier handlers.IDTokenVerifier
	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	switch {
	case errors.Is(err, firebase.ErrNotConfigured):
		log.Println("Firebase not configured; firebase login disabled.")
	case err != nil:
		log.Fatalf("Failed to initialize Firebase: %v", err)
	default:
		verifier = firebaseApp.AuthClient
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validator
	config.SetupMiddleware(e, logger)
	router.SetupRoutes(e, s, cfg, verifier)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	<-flusherDone
	if err := s.Close(shutdownCtx); err != nil {
		logger.Error("store close", "error", err)
	}
}
