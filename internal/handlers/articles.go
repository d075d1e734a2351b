// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkpress/internal/models"
	"inkpress/internal/service"
)

// Articles serves the article endpoints.
type Articles struct {
	svc *service.ArticleService
	log *slog.Logger
}

// NewArticles creates the article handler group.
func NewArticles(svc *service.ArticleService, log *slog.Logger) *Articles {
	return &Articles{svc: svc, log: log}
}

// Search lists non-deleted articles. Query: page, page_size, sort_by,
// sort_dir, term, category_id, author_id, status, is_featured, from, to.
func (h *Articles) Search(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	c := service.ArticleCriteria{
		Request:    q.paging(),
		Term:       q.str("term"),
		CategoryID: q.id("category_id"),
		AuthorID:   q.id("author_id"),
		IsFeatured: q.flag("is_featured"),
		From:       q.date("from", false),
		To:         q.date("to", true),
	}
	if q.str("status") != "" {
		st := models.ArticleStatus(q.integer("status", 0))
		c.Status = &st
	}
	if !q.ok(w) {
		return
	}

	page, err := h.svc.Search(r.Context(), c)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Featured lists published featured articles. Query: count.
func (h *Articles) Featured(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	count := q.integer("count", 5)
	if !q.ok(w) {
		return
	}
	items, err := h.svc.GetFeatured(r.Context(), count)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// HomePage lists published home page articles. Query: count.
func (h *Articles) HomePage(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	count := q.integer("count", 10)
	if !q.ok(w) {
		return
	}
	items, err := h.svc.GetHomePage(r.Context(), count)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// ByCategory lists published articles of the {id} category.
func (h *Articles) ByCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	q := newQuery(r)
	p := q.paging()
	if !q.ok(w) {
		return
	}
	page, err := h.svc.GetByCategory(r.Context(), id, p.Page, p.PageSize)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Articles) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	d, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// GetBySlug returns a published article.
func (h *Articles) GetBySlug(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Articles) Create(w http.ResponseWriter, r *http.Request) {
	var req service.ArticleRequest
	if !decode(w, r, &req) {
		return
	}
	d, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	w.Header().Set("Location", "/api/articles/"+d.ID.String())
	writeJSON(w, http.StatusCreated, d)
}

func (h *Articles) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req service.ArticleRequest
	if !decode(w, r, &req) {
		return
	}
	d, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Articles) Delete(w http.ResponseWriter, r *http.Request) {
	h.outcome(w, r, h.svc.SoftDelete)
}

func (h *Articles) Restore(w http.ResponseWriter, r *http.Request) {
	h.outcome(w, r, h.svc.Restore)
}

func (h *Articles) View(w http.ResponseWriter, r *http.Request) {
	h.outcome(w, r, h.svc.IncrementView)
}

func (h *Articles) Like(w http.ResponseWriter, r *http.Request) {
	h.outcome(w, r, h.svc.IncrementLike)
}

func (h *Articles) Share(w http.ResponseWriter, r *http.Request) {
	h.outcome(w, r, h.svc.IncrementShare)
}

func (h *Articles) outcome(w http.ResponseWriter, r *http.Request, fn outcomeFunc) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeOutcome(w, fn(r.Context(), id))
}
