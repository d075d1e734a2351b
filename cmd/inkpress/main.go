// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the inkpress API server.
// It loads configuration, opens the store, sets up routing and background
// jobs, and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkpress/internal/cache"
	"inkpress/internal/config"
	"inkpress/internal/database"
	"inkpress/internal/handlers"
	"inkpress/internal/job"
	"inkpress/internal/middleware"
	"inkpress/internal/models"
	"inkpress/internal/router"
	"inkpress/internal/service"
	"inkpress/internal/store"
	"inkpress/internal/store/memstore"
)

func main() {
	// Load configuration first so the logger format can follow APP_ENV.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"store", cfg.StoreDriver,
		"comment_count_policy", cfg.CommentCountPolicy,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, db, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	opts := []service.Option{
		service.WithLogger(logger),
		service.WithCountPolicy(cfg.CommentCountPolicy),
	}

	// Article details are cached in Valkey when a TTL is configured.
	// The API keeps working without the cache.
	if cfg.CacheEnabled() {
		client, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
		if err != nil {
			slog.Warn("valkey unavailable, article cache disabled", "error", err)
		} else {
			defer client.Close()
			opts = append(opts, service.WithCache(cache.NewJSONCache(client, "inkpress:article:", cfg.CacheTTL)))
		}
	}

	articles := service.NewArticleService(st, opts...)
	categories := service.NewCategoryService(st, opts...)
	tags := service.NewTagService(st, opts...)
	comments := service.NewCommentService(st, articles, opts...)

	if cfg.StoreDriver == config.DriverMemory && cfg.IsDev() {
		if err := seedMemory(ctx, st.(*memstore.Store), categories); err != nil {
			slog.Error("failed to seed memory store", "error", err)
			os.Exit(1)
		}
	}

	var limiter *middleware.RateLimiter
	if cfg.CommentRateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.CommentRateLimit, cfg.CommentRateWindow)
		defer limiter.Stop()
	}

	deps := router.Deps{
		Log:            logger,
		Articles:       handlers.NewArticles(articles, logger),
		Categories:     handlers.NewCategories(categories, logger),
		Tags:           handlers.NewTags(tags, logger),
		Comments:       handlers.NewComments(comments, logger),
		CommentLimiter: limiter,
	}
	if db != nil {
		deps.Health = db
	}
	r := router.New(deps)

	// Periodic repair of article comment counters.
	scheduler := job.NewScheduler(logger)
	if err := scheduler.Register(cfg.ReconcileSchedule, job.NewCommentCountJob(comments, cfg.ReconcileTimeout, logger)); err != nil {
		slog.Error("failed to schedule jobs", "error", err)
		os.Exit(1)
	}
	scheduler.Start()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		slog.Error("server failed to start", "error", err)
		scheduler.Stop()
		os.Exit(1)
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	scheduler.Stop()

	slog.Info("server stopped gracefully")
}

// newLogger outputs text in development and JSON everywhere else.
func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsDev() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// openStore returns the configured store. db is non-nil only for PostgreSQL.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, *sql.DB, error) {
	if cfg.StoreDriver == config.DriverMemory {
		slog.Warn("using in-memory store, data is lost on restart")
		return memstore.New(), nil, nil
	}

	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, nil, err
	}
	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
	}
	return store.New(db), db, nil
}

// seedMemory gives a fresh in-memory store the same author and category
// that database.Seed provides for PostgreSQL.
func seedMemory(ctx context.Context, ms *memstore.Store, categories *service.CategoryService) error {
	author := models.User{
		Entity:    models.NewEntity(time.Now().UTC()),
		Email:     database.SeedAuthorEmail,
		FirstName: "Ink",
		LastName:  "Author",
		IsActive:  true,
	}
	ms.PutUser(author)

	desc := "Everything that fits nowhere else"
	cat, err := categories.Create(ctx, service.CategoryRequest{
		Name:        "General",
		Slug:        database.SeedCategorySlug,
		Description: &desc,
	})
	if err != nil {
		return err
	}

	slog.Info("memory store seeded with development data",
		"author", author.Email,
		"author_id", author.ID,
		"category_id", cat.ID,
	)
	return nil
}
