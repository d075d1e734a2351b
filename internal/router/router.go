// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains of the
// inkpress API.
package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"inkpress/internal/handlers"
	"inkpress/internal/middleware"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the handler groups and shared pieces the routes need.
// Health may be nil when nothing external backs the store.
type Deps struct {
	Log            *slog.Logger
	Articles       *handlers.Articles
	Categories     *handlers.Categories
	Tags           *handlers.Tags
	Comments       *handlers.Comments
	CommentLimiter *middleware.RateLimiter
	Health         Pinger
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(d.Log))
	r.Use(middleware.Recoverer(d.Log))
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.Identity)

	r.Get("/health", healthHandler(d.Health))

	r.Route("/api", func(r chi.Router) {
		r.Route("/articles", func(r chi.Router) {
			r.Get("/", d.Articles.Search)
			r.Post("/", d.Articles.Create)
			r.Get("/featured", d.Articles.Featured)
			r.Get("/home", d.Articles.HomePage)
			r.Get("/slug/{slug}", d.Articles.GetBySlug)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", d.Articles.Get)
				r.Put("/", d.Articles.Update)
				r.Delete("/", d.Articles.Delete)
				r.Post("/restore", d.Articles.Restore)
				r.Post("/view", d.Articles.View)
				r.Post("/like", d.Articles.Like)
				r.Post("/share", d.Articles.Share)
				r.Get("/comments", d.Comments.ByArticle)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", d.Categories.List)
			r.Post("/", d.Categories.Create)
			r.Get("/all", d.Categories.All)
			r.Get("/tree", d.Categories.Tree)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", d.Categories.Get)
				r.Put("/", d.Categories.Update)
				r.Delete("/", d.Categories.Delete)
				r.Post("/restore", d.Categories.Restore)
				r.Get("/children", d.Categories.Children)
				r.Get("/articles", d.Articles.ByCategory)
			})
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", d.Tags.List)
			r.Post("/", d.Tags.Create)
			r.Get("/all", d.Tags.All)
			r.Get("/popular", d.Tags.Popular)
			r.Get("/slug/{slug}", d.Tags.GetBySlug)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", d.Tags.Get)
				r.Put("/", d.Tags.Update)
				r.Delete("/", d.Tags.Delete)
				r.Post("/restore", d.Tags.Restore)
				r.Post("/use", d.Tags.Use)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/", d.Comments.List)
			r.Get("/recent", d.Comments.Recent)
			r.Get("/pending", d.Comments.Pending)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				if d.CommentLimiter != nil {
					r.Use(d.CommentLimiter.Middleware)
				}
				r.Post("/", d.Comments.Create)
			})
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", d.Comments.Get)
				r.Put("/", d.Comments.Update)
				r.Put("/status", d.Comments.Moderate)
				r.Delete("/", d.Comments.Delete)
				r.Post("/restore", d.Comments.Restore)
				r.Post("/like", d.Comments.Like)
				r.Get("/replies", d.Comments.Replies)
			})
		})
	})

	return r
}

// healthHandler reports ok, or 503 when the database does not answer.
func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status":"unavailable"}`))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}
}
