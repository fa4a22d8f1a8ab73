package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/cihwallet/wallet-api/internal/config"
	"github.com/cihwallet/wallet-api/internal/domain/seed"
	"github.com/cihwallet/wallet-api/internal/pkg/database"
	"github.com/cihwallet/wallet-api/internal/pkg/logger"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("storage", cfg.StorageDriver).
		Msg("Starting wallet API")

	var db *sqlx.DB
	if cfg.UsePostgres() {
		var err error
		db, err = database.NewPostgres(cfg.DatabaseURL, database.PoolConfig{MaxOpenConns: cfg.DBMaxOpenConns})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer database.ClosePostgres(db)

		if cfg.MigrateOnStart {
			if err := database.Migrate(context.Background(), db); err != nil {
				log.Fatal().Err(err).Msg("Failed to apply database schema")
			}
		}
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		var err error
		rdb, err = database.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer database.CloseRedis(rdb)
	}

	a := newApp(cfg, db, rdb)

	if cfg.SeedDemoData {
		if _, err := seed.Run(context.Background(), a.accountService, a.ledgerService); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed demo data")
		}
	}

	if a.sweeper != nil {
		a.sweeper.Start()
		defer a.sweeper.Stop()
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      a.router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func setupLogger(cfg *config.Config) {
	err := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		LogFile:     cfg.LogFile,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to open log file, logging to stdout only")
	}
}
