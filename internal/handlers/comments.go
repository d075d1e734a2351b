// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"unicode/utf8"

	"inkpress/internal/middleware"
	"inkpress/internal/models"
	"inkpress/internal/service"
)

// Comments serves the comment endpoints.
type Comments struct {
	svc *service.CommentService
	log *slog.Logger
}

// NewComments creates the comment handler group.
func NewComments(svc *service.CommentService, log *slog.Logger) *Comments {
	return &Comments{svc: svc, log: log}
}

// statusRequest is the body of a moderation call.
type statusRequest struct {
	Status models.CommentStatus `json:"status"`
}

// List pages through comments. Query: page, page_size, article_id, user_id, status.
func (h *Comments) List(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	c := service.CommentCriteria{
		Request:   q.paging(),
		ArticleID: q.id("article_id"),
		UserID:    q.id("user_id"),
	}
	if q.str("status") != "" {
		st := models.CommentStatus(q.integer("status", 0))
		c.Status = &st
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

// ByArticle lists the approved comments of the {id} article.
func (h *Comments) ByArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	q := newQuery(r)
	p := q.paging()
	if !q.ok(w) {
		return
	}
	page, err := h.svc.GetByArticle(r.Context(), id, p.Page, p.PageSize)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Comments) Replies(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	items, err := h.svc.GetReplies(r.Context(), id)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Recent lists the latest approved comments. Query: count.
func (h *Comments) Recent(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	count := q.integer("count", 10)
	if !q.ok(w) {
		return
	}
	items, err := h.svc.GetRecent(r.Context(), count)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Pending lists the comments awaiting moderation. Query: count.
func (h *Comments) Pending(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	count := q.integer("count", 20)
	if !q.ok(w) {
		return
	}
	items, err := h.svc.GetPending(r.Context(), count)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Comments) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Create posts a comment as the caller named by the identity header. The
// client address and agent are taken from the request.
func (h *Comments) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing caller identity"})
		return
	}
	var req service.CommentRequest
	if !decode(w, r, &req) {
		return
	}
	req.IPAddress = middleware.ClientIP(r)
	req.UserAgent = truncate(r.UserAgent(), 500)

	c, err := h.svc.Create(r.Context(), req, userID)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	w.Header().Set("Location", "/api/comments/"+c.ID.String())
	writeJSON(w, http.StatusCreated, c)
}

func (h *Comments) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req service.CommentUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Moderate moves a comment to the status in the body.
func (h *Comments) Moderate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.svc.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Comments) Delete(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathID(w, r); ok {
		writeOutcome(w, h.svc.SoftDelete(r.Context(), id))
	}
}

func (h *Comments) Restore(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathID(w, r); ok {
		writeOutcome(w, h.svc.Restore(r.Context(), id))
	}
}

func (h *Comments) Like(w http.ResponseWriter, r *http.Request) {
	if id, ok := pathID(w, r); ok {
		writeOutcome(w, h.svc.IncrementLike(r.Context(), id))
	}
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
