// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"inkpress/internal/handlers"
	"inkpress/internal/middleware"
	"inkpress/internal/models"
	"inkpress/internal/service"
	"inkpress/internal/store/memstore"
)

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newServer(t *testing.T, limit int) (http.Handler, uuid.UUID) {
	t.Helper()
	log := quiet()
	ms := memstore.New()
	user := models.User{Entity: models.NewEntity(time.Now()), Email: "u@example.com", FirstName: "Una", LastName: "Reader", IsActive: true}
	ms.PutUser(user)

	articles := service.NewArticleService(ms, service.WithLogger(log))
	limiter := middleware.NewRateLimiter(limit, time.Minute)
	t.Cleanup(limiter.Stop)

	return New(Deps{
		Log:            log,
		Articles:       handlers.NewArticles(articles, log),
		Categories:     handlers.NewCategories(service.NewCategoryService(ms, service.WithLogger(log)), log),
		Tags:           handlers.NewTags(service.NewTagService(ms, service.WithLogger(log)), log),
		Comments:       handlers.NewComments(service.NewCommentService(ms, articles, service.WithLogger(log)), log),
		CommentLimiter: limiter,
	}), user.ID
}

func call(t *testing.T, h http.Handler, method, path, body string, userID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.RemoteAddr = "198.51.100.4:5000"
	if userID != uuid.Nil {
		req.Header.Set(middleware.UserIDHeader, userID.String())
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func mustDecode(t *testing.T, rr *httptest.ResponseRecorder, want int, dst any) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status = %d, want %d: %s", rr.Code, want, rr.Body.String())
	}
	if dst == nil {
		return
	}
	if err := json.Unmarshal(rr.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name   string
		db     Pinger
		status int
		body   string
	}{
		{"no database", nil, http.StatusOK, "ok"},
		{"database up", pinger{}, http.StatusOK, "ok"},
		{"database down", pinger{err: errors.New("refused")}, http.StatusServiceUnavailable, "unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			healthHandler(tt.db)(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			if w.Code != tt.status {
				t.Errorf("status: got %d, want %d", w.Code, tt.status)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("content-type: got %q", ct)
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["status"] != tt.body {
				t.Errorf("status field: got %q, want %q", body["status"], tt.body)
			}
		})
	}
}

func TestMiddlewareChain(t *testing.T) {
	h, _ := newServer(t, 5)
	rr := call(t, h, http.MethodGet, "/health", "", uuid.Nil)

	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
	if rr := call(t, h, http.MethodGet, "/api/nothing-here", "", uuid.Nil); rr.Code != http.StatusNotFound {
		t.Errorf("unknown route: %d", rr.Code)
	}
	if rr := call(t, h, http.MethodPatch, "/api/articles", "", uuid.Nil); rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("wrong method: %d", rr.Code)
	}
}

func TestContentFlow(t *testing.T) {
	h, userID := newServer(t, 10)

	var tech, software service.CategoryDetail
	mustDecode(t, call(t, h, http.MethodPost, "/api/categories", `{"name":"Tech","slug":"tech","order":1}`, uuid.Nil), http.StatusCreated, &tech)
	mustDecode(t, call(t, h, http.MethodPost, "/api/categories",
		fmt.Sprintf(`{"name":"Software","slug":"software","order":1,"parent_category_id":%q}`, tech.ID), uuid.Nil), http.StatusCreated, &software)

	var techDetail service.CategoryDetail
	mustDecode(t, call(t, h, http.MethodGet, "/api/categories/"+tech.ID.String(), "", uuid.Nil), http.StatusOK, &techDetail)
	if techDetail.SubCategoryCount != 1 {
		t.Errorf("SubCategoryCount = %d, want 1", techDetail.SubCategoryCount)
	}

	var tree []service.CategoryNode
	mustDecode(t, call(t, h, http.MethodGet, "/api/categories/tree", "", uuid.Nil), http.StatusOK, &tree)
	if len(tree) != 1 || len(tree[0].Children) != 1 || tree[0].Children[0].Name != "Software" {
		t.Errorf("tree = %+v", tree)
	}

	var ai, cloud service.TagDetail
	mustDecode(t, call(t, h, http.MethodPost, "/api/tags", `{"name":"ai"}`, uuid.Nil), http.StatusCreated, &ai)
	mustDecode(t, call(t, h, http.MethodPost, "/api/tags", `{"name":"cloud"}`, uuid.Nil), http.StatusCreated, &cloud)

	body := fmt.Sprintf(`{"title":"Serverless AI","content":"# Intro\n\nText","author_id":%q,"category_id":%q,"tag_ids":[%q,%q],"status":2,"is_featured":true}`,
		userID, software.ID, ai.ID, cloud.ID)
	var article service.ArticleDetail
	mustDecode(t, call(t, h, http.MethodPost, "/api/articles", body, uuid.Nil), http.StatusCreated, &article)
	if len(article.Tags) != 2 {
		t.Errorf("Tags = %v", article.Tags)
	}

	body = fmt.Sprintf(`{"title":"Serverless AI","content":"Text","category_id":%q,"tag_ids":[%q],"status":2,"is_featured":true}`, software.ID, cloud.ID)
	mustDecode(t, call(t, h, http.MethodPut, "/api/articles/"+article.ID.String(), body, uuid.Nil), http.StatusOK, &article)
	if len(article.Tags) != 1 || article.Tags[0] != "cloud" {
		t.Errorf("Tags after update = %v, want [cloud]", article.Tags)
	}

	var bySlug service.ArticleDetail
	mustDecode(t, call(t, h, http.MethodGet, "/api/articles/slug/serverless-ai", "", uuid.Nil), http.StatusOK, &bySlug)
	if bySlug.ID != article.ID {
		t.Errorf("slug lookup returned %v", bySlug.ID)
	}

	var featured []service.ArticleSummary
	mustDecode(t, call(t, h, http.MethodGet, "/api/articles/featured?count=3", "", uuid.Nil), http.StatusOK, &featured)
	if len(featured) != 1 {
		t.Errorf("featured = %d items", len(featured))
	}

	var byCategory struct {
		TotalCount int `json:"total_count"`
	}
	mustDecode(t, call(t, h, http.MethodGet, "/api/categories/"+software.ID.String()+"/articles", "", uuid.Nil), http.StatusOK, &byCategory)
	if byCategory.TotalCount != 1 {
		t.Errorf("category articles = %d", byCategory.TotalCount)
	}

	// comment moderation keeps the article counter in step
	var comment service.CommentSummary
	mustDecode(t, call(t, h, http.MethodPost, "/api/comments", fmt.Sprintf(`{"content":"Nice","article_id":%q}`, article.ID), userID), http.StatusCreated, &comment)
	mustDecode(t, call(t, h, http.MethodPut, "/api/comments/"+comment.ID.String()+"/status", `{"status":1}`, uuid.Nil), http.StatusOK, nil)

	var approved struct {
		Items []service.CommentSummary `json:"items"`
	}
	mustDecode(t, call(t, h, http.MethodGet, "/api/articles/"+article.ID.String()+"/comments", "", uuid.Nil), http.StatusOK, &approved)
	if len(approved.Items) != 1 || approved.Items[0].UserName != "Una Reader" {
		t.Errorf("article comments = %+v", approved.Items)
	}

	mustDecode(t, call(t, h, http.MethodGet, "/api/articles/"+article.ID.String(), "", uuid.Nil), http.StatusOK, &article)
	if article.CommentCount != 1 {
		t.Errorf("CommentCount = %d, want 1", article.CommentCount)
	}

	// soft delete hides from search, id lookup still works
	mustDecode(t, call(t, h, http.MethodDelete, "/api/articles/"+article.ID.String(), "", uuid.Nil), http.StatusNoContent, nil)
	var search struct {
		TotalCount int `json:"total_count"`
	}
	mustDecode(t, call(t, h, http.MethodGet, "/api/articles", "", uuid.Nil), http.StatusOK, &search)
	if search.TotalCount != 0 {
		t.Errorf("search total = %d after delete", search.TotalCount)
	}
	mustDecode(t, call(t, h, http.MethodGet, "/api/articles/"+article.ID.String(), "", uuid.Nil), http.StatusOK, &article)
	if !article.IsDeleted {
		t.Error("IsDeleted = false")
	}
	mustDecode(t, call(t, h, http.MethodPost, "/api/articles/"+article.ID.String()+"/restore", "", uuid.Nil), http.StatusNoContent, nil)
	mustDecode(t, call(t, h, http.MethodGet, "/api/articles", "", uuid.Nil), http.StatusOK, &search)
	if search.TotalCount != 1 {
		t.Errorf("search total = %d after restore", search.TotalCount)
	}
}

func TestCommentCreationIsRateLimited(t *testing.T) {
	h, userID := newServer(t, 2)

	var cat service.CategoryDetail
	mustDecode(t, call(t, h, http.MethodPost, "/api/categories", `{"name":"News"}`, uuid.Nil), http.StatusCreated, &cat)
	var article service.ArticleDetail
	mustDecode(t, call(t, h, http.MethodPost, "/api/articles",
		fmt.Sprintf(`{"title":"Hot take","content":"x","author_id":%q,"category_id":%q,"status":2}`, userID, cat.ID), uuid.Nil), http.StatusCreated, &article)

	body := fmt.Sprintf(`{"content":"First!","article_id":%q}`, article.ID)
	for i := range 2 {
		if rr := call(t, h, http.MethodPost, "/api/comments", body, userID); rr.Code != http.StatusCreated {
			t.Fatalf("comment %d: %d %s", i+1, rr.Code, rr.Body.String())
		}
	}
	if rr := call(t, h, http.MethodPost, "/api/comments", body, userID); rr.Code != http.StatusTooManyRequests {
		t.Errorf("third comment: %d, want 429", rr.Code)
	}
	if rr := call(t, h, http.MethodGet, "/api/comments/pending", "", uuid.Nil); rr.Code != http.StatusOK {
		t.Errorf("reads are not limited: %d", rr.Code)
	}
}
