package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	_ "github.com/safevoice/safevoice-api/docs"
	"github.com/safevoice/safevoice-api/internal/ai"
	"github.com/safevoice/safevoice-api/internal/auth"
	"github.com/safevoice/safevoice-api/internal/config"
	httpapi "github.com/safevoice/safevoice-api/internal/http"
	"github.com/safevoice/safevoice-api/internal/observability"
	"github.com/safevoice/safevoice-api/internal/repo"
	"github.com/safevoice/safevoice-api/internal/storage"
)

const shutdownTimeout = 15 * time.Second

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadServerConfig()
	if err != nil {
		return err
	}

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("tracer shutdown")
		}
	}()

	db, err := openDB(cfg)
	if err != nil {
		return err
	}

	store, err := storage.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("media storage: %w", err)
	}

	backends := httpapi.Backends{Store: store}
	gen, err := ai.NewGemini(ctx, cfg.Gemini)
	switch {
	case errors.Is(err, ai.ErrNotConfigured):
	case err != nil:
		return err
	default:
		backends.Generator = gen
		log.Info().Str("model", gen.Model()).Msg("text generation enabled")
	}
	if cfg.Firebase.Enabled() {
		fb, err := auth.NewFirebase(ctx, cfg.Firebase)
		if err != nil {
			return fmt.Errorf("firebase: %w", err)
		}
		backends.Verifier = fb
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, cfg, backends)

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("storage", cfg.Storage.Driver).Str("db", cfg.DB.Driver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutdown signal received")

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}

// loadServerConfig reads the environment. Outside release mode a missing
// JWT secret is replaced by a random one, so sessions end with the process.
func loadServerConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if cfg.JWT.Secret == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return cfg, err
		}
		cfg.JWT.Secret = hex.EncodeToString(b)
		log.Warn().Msg("JWT_SECRET not set; using an ephemeral secret")
	}
	return cfg, nil
}

func openDB(cfg config.Config) (*gorm.DB, error) {
	db, err := repo.Open(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}
