// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"inkpress/internal/service"
)

// outcomeFunc is a service mutation reporting an Outcome.
type outcomeFunc func(ctx context.Context, id uuid.UUID) service.Outcome

// Categories serves the category endpoints.
type Categories struct {
	svc *service.CategoryService
	log *slog.Logger
}

// NewCategories creates the category handler group.
func NewCategories(svc *service.CategoryService, log *slog.Logger) *Categories {
	return &Categories{svc: svc, log: log}
}

// List pages through categories. Query: page, page_size, term, parent_id, root_only.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	c := service.CategoryCriteria{
		Request:  q.paging(),
		Term:     q.str("term"),
		ParentID: q.id("parent_id"),
	}
	if root := q.flag("root_only"); root != nil {
		c.RootOnly = *root
	}
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

func (h *Categories) All(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.GetAll(r.Context())
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Categories) Tree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.svc.GetTree(r.Context())
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (h *Categories) Children(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	items, err := h.svc.GetChildren(r.Context(), id)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
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

func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CategoryRequest
	if !decode(w, r, &req) {
		return
	}
	d, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	w.Header().Set("Location", "/api/categories/"+d.ID.String())
	writeJSON(w, http.StatusCreated, d)
}

func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req service.CategoryRequest
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

func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathID(w, r); ok {
		writeOutcome(w, h.svc.SoftDelete(r.Context(), id))
	}
}

func (h *Categories) Restore(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathID(w, r); ok {
		writeOutcome(w, h.svc.Restore(r.Context(), id))
	}
}
