// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"inkpress/internal/models"
	"inkpress/internal/paging"
)

// mapCache is a DetailCache for article details that records its traffic.
type mapCache struct {
	mu      sync.Mutex
	entries map[string]ArticleDetail
	hits    int
	deleted []string
	clears  int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]ArticleDetail)}
}

func (c *mapCache) Get(_ context.Context, key string, dst any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.entries[key]
	if !ok {
		return false
	}
	c.hits++
	*dst.(*ArticleDetail) = d
	return true
}

func (c *mapCache) Set(_ context.Context, key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = *v.(*ArticleDetail)
}

func (c *mapCache) Clear(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.clears++
}

func (c *mapCache) Delete(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
		c.deleted = append(c.deleted, k)
	}
}

func TestArticleCreate(t *testing.T) {
	e := newEnv(t)
	goTag := e.mustTag("Go")
	dbTag := e.mustTag("Databases")

	a := e.mustArticle(e.published("Hello, Wörld!", goTag.ID, dbTag.ID, goTag.ID))

	if a.Slug != "hello-world" {
		t.Errorf("Slug = %q, want hello-world", a.Slug)
	}
	if a.PublishedAt == nil {
		t.Error("PublishedAt not stamped for a published article")
	}
	if a.ReadingTime != 1 {
		t.Errorf("ReadingTime = %d, want 1", a.ReadingTime)
	}
	if a.AuthorName != "Ada Lovelace" || a.CategoryName != "General" {
		t.Errorf("refs = %q / %q", a.AuthorName, a.CategoryName)
	}
	if want := []string{"Databases", "Go"}; !slices.Equal(a.Tags, want) {
		t.Errorf("Tags = %v, want %v", a.Tags, want)
	}
	if len(a.TagIDs) != 2 {
		t.Errorf("TagIDs = %v, want the two distinct tags", a.TagIDs)
	}
	if !strings.Contains(a.ContentHTML, "<p>Body of Hello, Wörld!</p>") {
		t.Errorf("ContentHTML = %q", a.ContentHTML)
	}
	if !a.IsPublish || a.IsDeleted {
		t.Errorf("visibility = publish %v deleted %v", a.IsPublish, a.IsDeleted)
	}
}

func TestArticleCreateDraftHasNoPublishedAt(t *testing.T) {
	e := newEnv(t)
	req := e.published("Draft")
	req.Status = models.ArticleStatusDraft

	a := e.mustArticle(req)
	if a.PublishedAt != nil {
		t.Errorf("PublishedAt = %v, want nil", a.PublishedAt)
	}
}

func TestArticleCreateRejects(t *testing.T) {
	e := newEnv(t)
	deleted := e.mustTag("Old")
	if out := e.tags.SoftDelete(e.ctx, deleted.ID); out != OK {
		t.Fatalf("soft delete tag = %v", out)
	}

	tests := []struct {
		name  string
		edit  func(r *ArticleRequest)
		field string
	}{
		{"empty title", func(r *ArticleRequest) { r.Title = "   " }, "title"},
		{"missing author", func(r *ArticleRequest) { r.AuthorID = uuid.Nil }, "author_id"},
		{"unknown author", func(r *ArticleRequest) { r.AuthorID = uuid.New() }, "author_id"},
		{"unknown category", func(r *ArticleRequest) { r.CategoryID = uuid.New() }, "category_id"},
		{"deleted tag", func(r *ArticleRequest) { r.TagIDs = []uuid.UUID{deleted.ID} }, "tag_ids"},
		{"bad slug", func(r *ArticleRequest) { r.Slug = "Not A Slug" }, "slug"},
		{"bad status", func(r *ArticleRequest) { r.Status = 9 }, "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := e.published("Rejected")
			tt.edit(&req)
			_, err := e.articles.Create(e.ctx, req)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
		})
	}

	page, err := e.articles.Search(e.ctx, ArticleCriteria{})
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalCount != 0 {
		t.Errorf("rejected creates left %d articles behind", page.TotalCount)
	}
}

func TestArticleSlugCollisions(t *testing.T) {
	e := newEnv(t)
	first := e.mustArticle(e.published("Same Title"))
	second := e.mustArticle(e.published("Same Title"))
	third := e.mustArticle(e.published("Same Title"))

	got := []string{first.Slug, second.Slug, third.Slug}
	want := []string{"same-title", "same-title-2", "same-title-3"}
	if !slices.Equal(got, want) {
		t.Errorf("slugs = %v, want %v", got, want)
	}

	req := e.published("Other")
	req.Slug = "same-title"
	if _, err := e.articles.Create(e.ctx, req); !errors.Is(err, ErrConflict) {
		t.Errorf("explicit taken slug: err = %v, want ErrConflict", err)
	}
}

func TestArticleUpdate(t *testing.T) {
	e := newEnv(t)
	goTag := e.mustTag("Go")
	sqlTag := e.mustTag("SQL")
	webTag := e.mustTag("Web")

	a := e.mustArticle(e.published("Original", goTag.ID, sqlTag.ID))
	publishedAt := *a.PublishedAt
	e.articles.IncrementView(e.ctx, a.ID)

	req := e.published("Renamed", webTag.ID)
	req.AuthorID = e.reader
	updated, err := e.articles.Update(e.ctx, a.ID, req)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if updated.Title != "Renamed" || updated.Slug != "original" {
		t.Errorf("title/slug = %q/%q, want Renamed/original", updated.Title, updated.Slug)
	}
	if !slices.Equal(updated.Tags, []string{"Web"}) {
		t.Errorf("Tags = %v, want [Web]", updated.Tags)
	}
	if updated.AuthorID != e.author {
		t.Error("Update changed the author")
	}
	if updated.ViewCount != 1 {
		t.Errorf("ViewCount = %d, want 1", updated.ViewCount)
	}
	if updated.ModifiedDate == nil {
		t.Error("ModifiedDate not set")
	}
	if !updated.PublishedAt.Equal(publishedAt) {
		t.Errorf("PublishedAt moved from %v to %v", publishedAt, updated.PublishedAt)
	}

	if _, err := e.articles.Update(e.ctx, uuid.New(), req); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id: err = %v, want ErrNotFound", err)
	}
}

func TestArticleUpdateKeepsDeletedReferences(t *testing.T) {
	e := newEnv(t)
	goTag := e.mustTag("Go")
	oldTag := e.mustTag("Old")
	a := e.mustArticle(e.published("Filed", goTag.ID, oldTag.ID))

	if out := e.categories.SoftDelete(e.ctx, e.category); out != OK {
		t.Fatalf("soft delete category = %v", out)
	}
	if out := e.tags.SoftDelete(e.ctx, oldTag.ID); out != OK {
		t.Fatalf("soft delete tag = %v", out)
	}

	// same category and same tags: only the title changes
	updated, err := e.articles.Update(e.ctx, a.ID, e.published("Filed again", goTag.ID, oldTag.ID))
	if err != nil {
		t.Fatalf("Update with unchanged references: %v", err)
	}
	if updated.Title != "Filed again" || updated.CategoryID != e.category {
		t.Errorf("updated = %q in %v", updated.Title, updated.CategoryID)
	}
	if !slices.Equal(updated.Tags, []string{"Go"}) {
		t.Errorf("Tags = %v, want only the live tag", updated.Tags)
	}

	// new references must still be live
	gone := e.mustCategory("Gone", nil)
	if out := e.categories.SoftDelete(e.ctx, gone.ID); out != OK {
		t.Fatalf("soft delete category = %v", out)
	}
	req := e.published("Moved")
	req.CategoryID = gone.ID
	_, err = e.articles.Update(e.ctx, a.ID, req)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "category_id" {
		t.Errorf("move to deleted category: err = %v, want category_id validation error", err)
	}

	retired := e.mustTag("Retired")
	if out := e.tags.SoftDelete(e.ctx, retired.ID); out != OK {
		t.Fatalf("soft delete tag = %v", out)
	}
	_, err = e.articles.Update(e.ctx, a.ID, e.published("Filed again", goTag.ID, retired.ID))
	if !errors.As(err, &ve) || ve.Field != "tag_ids" {
		t.Errorf("add deleted tag: err = %v, want tag_ids validation error", err)
	}
}

func TestArticleUpdateSlug(t *testing.T) {
	e := newEnv(t)
	a := e.mustArticle(e.published("First"))
	b := e.mustArticle(e.published("Second"))

	req := e.published("First")
	req.Slug = b.Slug
	if _, err := e.articles.Update(e.ctx, a.ID, req); !errors.Is(err, ErrConflict) {
		t.Errorf("taken slug: err = %v, want ErrConflict", err)
	}

	req.Slug = a.Slug
	if _, err := e.articles.Update(e.ctx, a.ID, req); err != nil {
		t.Errorf("own slug: %v", err)
	}

	req.Slug = "brand-new"
	got, err := e.articles.Update(e.ctx, a.ID, req)
	if err != nil {
		t.Fatal(err)
	}
	if got.Slug != "brand-new" {
		t.Errorf("Slug = %q", got.Slug)
	}
}

func TestArticleSoftDeleteAndRestore(t *testing.T) {
	e := newEnv(t)
	a := e.mustArticle(e.published("Ephemeral"))

	if out := e.articles.SoftDelete(e.ctx, a.ID); out != OK {
		t.Fatalf("SoftDelete = %v", out)
	}

	page, err := e.articles.Search(e.ctx, ArticleCriteria{Term: "ephemeral"})
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalCount != 0 {
		t.Errorf("deleted article still listed: %+v", page.Items)
	}
	if _, err := e.articles.GetBySlug(e.ctx, a.Slug); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetBySlug on deleted: err = %v", err)
	}

	got, err := e.articles.GetByID(e.ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID on deleted: %v", err)
	}
	if !got.IsDeleted {
		t.Error("IsDeleted = false after SoftDelete")
	}

	if out := e.articles.Restore(e.ctx, a.ID); out != OK {
		t.Fatalf("Restore = %v", out)
	}
	got, err = e.articles.GetByID(e.ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.IsDeleted || !got.IsPublish {
		t.Errorf("after Restore: deleted %v publish %v", got.IsDeleted, got.IsPublish)
	}

	if out := e.articles.SoftDelete(e.ctx, uuid.New()); out != NotFound {
		t.Errorf("SoftDelete unknown = %v, want NotFound", out)
	}
}

func TestArticleCounters(t *testing.T) {
	e := newEnv(t)
	a := e.mustArticle(e.published("Counted"))

	for range 3 {
		e.articles.IncrementView(e.ctx, a.ID)
	}
	e.articles.IncrementLike(e.ctx, a.ID)
	e.articles.IncrementShare(e.ctx, a.ID)
	e.articles.IncrementShare(e.ctx, a.ID)

	got, err := e.articles.GetByID(e.ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ViewCount != 3 || got.LikeCount != 1 || got.ShareCount != 2 {
		t.Errorf("counters = %d/%d/%d, want 3/1/2", got.ViewCount, got.LikeCount, got.ShareCount)
	}

	if out := e.articles.IncrementView(e.ctx, uuid.New()); out != NotFound {
		t.Errorf("unknown article = %v, want NotFound", out)
	}
}

func TestArticleStoreFailuresAreOutcomes(t *testing.T) {
	e := newEnv(t)
	a := e.mustArticle(e.published("Fragile"))
	broken := NewArticleService(brokenStore{e.store}, WithLogger(quietLogger()))

	if out := broken.IncrementLike(e.ctx, a.ID); out != Failed {
		t.Errorf("IncrementLike = %v, want Failed", out)
	}
	if out := broken.SoftDelete(e.ctx, a.ID); out != Failed {
		t.Errorf("SoftDelete = %v, want Failed", out)
	}
}

func TestArticleReloadInvariant(t *testing.T) {
	e := newEnv(t)
	svc := NewArticleService(vanishingStore{e.store}, WithLogger(quietLogger()))

	defer func() {
		r := recover()
		ie, ok := r.(*InvariantError)
		if !ok {
			t.Fatalf("recovered %v, want *InvariantError", r)
		}
		if ie.Entity != "article" {
			t.Errorf("Entity = %q", ie.Entity)
		}
	}()
	svc.Create(e.ctx, e.published("Lost"))
	t.Fatal("Create returned instead of panicking")
}

func TestArticleGetBySlug(t *testing.T) {
	cache := newMapCache()
	e := newEnv(t, WithCache(cache))
	a := e.mustArticle(e.published("Cached"))

	draft := e.published("Hidden")
	draft.Status = models.ArticleStatusDraft
	d := e.mustArticle(draft)

	unlisted := e.published("Unlisted")
	off := false
	unlisted.IsPublish = &off
	u := e.mustArticle(unlisted)

	for _, s := range []string{d.Slug, u.Slug, "missing"} {
		if _, err := e.articles.GetBySlug(e.ctx, s); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetBySlug(%q) err = %v, want ErrNotFound", s, err)
		}
	}

	got, err := e.articles.GetBySlug(e.ctx, a.Slug)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != a.ID {
		t.Errorf("ID = %v, want %v", got.ID, a.ID)
	}
	if _, err := e.articles.GetBySlug(e.ctx, a.Slug); err != nil {
		t.Fatal(err)
	}
	if cache.hits != 1 {
		t.Errorf("cache hits = %d, want 1", cache.hits)
	}

	req := e.published("Cached again")
	if _, err := e.articles.Update(e.ctx, a.ID, req); err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(cache.deleted, slugCacheKey(a.Slug)) {
		t.Errorf("Update did not invalidate %q: %v", a.Slug, cache.deleted)
	}
	got, err = e.articles.GetBySlug(e.ctx, a.Slug)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Cached again" {
		t.Errorf("Title = %q, served stale detail", got.Title)
	}
}

func TestArticleGetBySlugFollowsTaxonomyWrites(t *testing.T) {
	cache := newMapCache()
	e := newEnv(t, WithCache(cache))
	goTag := e.mustTag("Go")
	oldTag := e.mustTag("Old")
	a := e.mustArticle(e.published("Cached", goTag.ID, oldTag.ID))

	warm := func() *ArticleDetail {
		t.Helper()
		if _, err := e.articles.GetBySlug(e.ctx, a.Slug); err != nil {
			t.Fatal(err)
		}
		got, err := e.articles.GetBySlug(e.ctx, a.Slug)
		if err != nil {
			t.Fatal(err)
		}
		return got
	}

	if got := warm(); got.CategoryName != "General" {
		t.Fatalf("CategoryName = %q", got.CategoryName)
	}
	if _, err := e.categories.Update(e.ctx, e.category, CategoryRequest{Name: "Essays"}); err != nil {
		t.Fatal(err)
	}
	if got := warm(); got.CategoryName != "Essays" {
		t.Errorf("CategoryName = %q after rename, served stale detail", got.CategoryName)
	}

	if out := e.tags.SoftDelete(e.ctx, oldTag.ID); out != OK {
		t.Fatalf("soft delete tag = %v", out)
	}
	if got := warm(); !slices.Equal(got.Tags, []string{"Go"}) {
		t.Errorf("Tags = %v after tag delete, served stale detail", got.Tags)
	}

	if _, err := e.tags.Update(e.ctx, goTag.ID, TagRequest{Name: "Golang"}); err != nil {
		t.Fatal(err)
	}
	if got := warm(); !slices.Equal(got.Tags, []string{"Golang"}) {
		t.Errorf("Tags = %v after tag rename, served stale detail", got.Tags)
	}
	if cache.clears != 3 {
		t.Errorf("cache clears = %d, want 3", cache.clears)
	}
}

func TestArticleListings(t *testing.T) {
	e := newEnv(t)
	other := e.mustCategory("Other", nil)

	var featured []uuid.UUID
	for i := range 5 {
		req := e.published(fmt.Sprintf("Post %d", i))
		req.IsFeatured = i%2 == 0
		req.IsOnHomePage = i < 2
		a := e.mustArticle(req)
		if req.IsFeatured {
			featured = append(featured, a.ID)
		}
	}
	draft := e.published("Featured draft")
	draft.IsFeatured = true
	draft.Status = models.ArticleStatusInReview
	e.mustArticle(draft)

	elsewhere := e.published("Elsewhere")
	elsewhere.CategoryID = other.ID
	e.mustArticle(elsewhere)

	got, err := e.articles.GetFeatured(e.ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	// newest first: Post 4, Post 2, Post 0
	slices.Reverse(featured)
	if ids := summaryIDs(got); !slices.Equal(ids, featured) {
		t.Errorf("featured = %v, want %v", ids, featured)
	}

	home, err := e.articles.GetHomePage(e.ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(home) != 1 || home[0].Title != "Post 1" {
		t.Errorf("home page = %+v, want [Post 1]", home)
	}

	if none, _ := e.articles.GetFeatured(e.ctx, 0); len(none) != 0 {
		t.Errorf("count 0 returned %d items", len(none))
	}

	byCat, err := e.articles.GetByCategory(e.ctx, other.ID, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if byCat.TotalCount != 1 || byCat.Items[0].Title != "Elsewhere" {
		t.Errorf("by category = %+v", byCat.Items)
	}
}

func TestArticleSearchPaging(t *testing.T) {
	e := newEnv(t)
	for i := range 25 {
		e.mustArticle(e.published(fmt.Sprintf("Entry %02d", i)))
	}

	page, err := e.articles.Search(e.ctx, ArticleCriteria{Request: paging.Request{Page: 3, PageSize: 10}})
	if err != nil {
		t.Fatal(err)
	}
	if page.TotalCount != 25 || page.TotalPages != 3 || len(page.Items) != 5 {
		t.Errorf("page = total %d pages %d items %d", page.TotalCount, page.TotalPages, len(page.Items))
	}
	if page.HasNext || !page.HasPrevious {
		t.Errorf("HasNext %v HasPrevious %v", page.HasNext, page.HasPrevious)
	}
	// default order is newest first, so the last page holds the oldest
	if page.Items[4].Title != "Entry 00" {
		t.Errorf("last item = %q, want Entry 00", page.Items[4].Title)
	}

	sorted, err := e.articles.Search(e.ctx, ArticleCriteria{
		Request: paging.Request{PageSize: 3, SortBy: "title", SortDir: "asc"},
		Term:    "entry 1",
	})
	if err != nil {
		t.Fatal(err)
	}
	if sorted.TotalCount != 10 || sorted.Items[0].Title != "Entry 10" {
		t.Errorf("term search = total %d first %q", sorted.TotalCount, sorted.Items[0].Title)
	}
}

func summaryIDs(items []ArticleSummary) []uuid.UUID {
	ids := make([]uuid.UUID, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
