// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkpress/internal/service"
)

// Tags serves the tag endpoints.
type Tags struct {
	svc *service.TagService
	log *slog.Logger
}

// NewTags creates the tag handler group.
func NewTags(svc *service.TagService, log *slog.Logger) *Tags {
	return &Tags{svc: svc, log: log}
}

// List pages through tags. Query: page, page_size, term.
func (h *Tags) List(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	c := service.TagCriteria{Request: q.paging(), Term: q.str("term")}
	if !q.ok(w) {
		return
	}
	page, err := h.svc.List(r.Context(), c)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Tags) All(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.GetAll(r.Context())
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Popular lists the most used published tags. Query: count.
func (h *Tags) Popular(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	count := q.integer("count", 10)
	if !q.ok(w) {
		return
	}
	items, err := h.svc.GetPopular(r.Context(), count)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Tags) Get(w http.ResponseWriter, r *http.Request) {
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

func (h *Tags) GetBySlug(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *Tags) Create(w http.ResponseWriter, r *http.Request) {
	var req service.TagRequest
	if !decode(w, r, &req) {
		return
	}
	d, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	w.Header().Set("Location", "/api/tags/"+d.ID.String())
	writeJSON(w, http.StatusCreated, d)
}

func (h *Tags) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req service.TagRequest
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

func (h *Tags) Delete(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathID(w, r); ok {
		writeOutcome(w, h.svc.SoftDelete(r.Context(), id))
	}
}

func (h *Tags) Restore(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathID(w, r); ok {
		writeOutcome(w, h.svc.Restore(r.Context(), id))
	}
}

// Use bumps the explicit usage counter.
func (h *Tags) Use(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathID(w, r); ok {
		writeOutcome(w, h.svc.IncrementUsageCount(r.Context(), id))
	}
}
