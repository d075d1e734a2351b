// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package service holds the content core: articles, categories, tags and
// comments, their invariants, and the projections handed to callers.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"inkpress/internal/markdown"
	"inkpress/internal/models"
	"inkpress/internal/paging"
	"inkpress/internal/slug"
	"inkpress/internal/store"
)

// maxSlugAttempts bounds the suffix search for a free generated slug.
const maxSlugAttempts = 50

// ArticleService manages the article lifecycle.
type ArticleService struct {
	store store.Store
	opts  options
	group singleflight.Group
}

// NewArticleService creates an ArticleService over s.
func NewArticleService(s store.Store, opts ...Option) *ArticleService {
	return &ArticleService{store: s, opts: buildOptions("articles", opts)}
}

func slugCacheKey(s string) string {
	return "article:slug:" + s
}

// Search returns one page of non-deleted articles matching c.
func (s *ArticleService) Search(ctx context.Context, c ArticleCriteria) (paging.Page[ArticleSummary], error) {
	p := c.Request.Normalize()
	filter := store.ArticleFilter{
		Term:        c.Term,
		CategoryID:  c.CategoryID,
		AuthorID:    c.AuthorID,
		Status:      c.Status,
		IsFeatured:  c.IsFeatured,
		CreatedFrom: c.From,
		CreatedTo:   c.To,
	}
	return s.page(ctx, "search articles", filter, store.ArticleSorter.Resolve(p), p)
}

// GetByCategory returns published articles of one category, newest first.
func (s *ArticleService) GetByCategory(ctx context.Context, categoryID uuid.UUID, page, pageSize int) (paging.Page[ArticleSummary], error) {
	p := paging.Request{Page: page, PageSize: pageSize}.Normalize()
	filter := store.ArticleFilter{CategoryID: &categoryID, PublishedOnly: true}
	return s.page(ctx, "list category articles", filter, store.RecentFirst, p)
}

// GetFeatured returns up to count published, featured articles.
func (s *ArticleService) GetFeatured(ctx context.Context, count int) ([]ArticleSummary, error) {
	featured := true
	return s.top(ctx, "list featured articles", store.ArticleFilter{IsFeatured: &featured, PublishedOnly: true}, count)
}

// GetHomePage returns up to count published articles flagged for the home page.
func (s *ArticleService) GetHomePage(ctx context.Context, count int) ([]ArticleSummary, error) {
	home := true
	return s.top(ctx, "list home page articles", store.ArticleFilter{IsOnHomePage: &home, PublishedOnly: true}, count)
}

func (s *ArticleService) top(ctx context.Context, op string, filter store.ArticleFilter, count int) ([]ArticleSummary, error) {
	if count < 1 {
		return []ArticleSummary{}, nil
	}
	page, err := s.page(ctx, op, filter, store.RecentFirst, paging.First(count))
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (s *ArticleService) page(ctx context.Context, op string, filter store.ArticleFilter, orders []paging.Order, p paging.Request) (paging.Page[ArticleSummary], error) {
	rows, total, err := s.store.Articles().Search(ctx, filter, orders, p)
	if err != nil {
		s.opts.log.Error(op+" failed", "error", err)
		return paging.Page[ArticleSummary]{}, fmt.Errorf("%s: %w", op, err)
	}
	items, err := s.summaries(ctx, s.store, rows)
	if err != nil {
		s.opts.log.Error(op+" failed", "error", err)
		return paging.Page[ArticleSummary]{}, fmt.Errorf("%s: %w", op, err)
	}
	return paging.New(items, total, p), nil
}

// articleRefs holds the display values resolved for a batch of articles.
type articleRefs struct {
	authors    map[uuid.UUID]string
	categories map[uuid.UUID]string
	tags       map[uuid.UUID][]string
}

func (s *ArticleService) resolve(ctx context.Context, st store.Store, rows []models.Article) (articleRefs, error) {
	var authorIDs, categoryIDs, articleIDs []uuid.UUID
	for _, a := range rows {
		authorIDs = append(authorIDs, a.AuthorID)
		categoryIDs = append(categoryIDs, a.CategoryID)
		articleIDs = append(articleIDs, a.ID)
	}

	refs := articleRefs{
		authors:    make(map[uuid.UUID]string),
		categories: make(map[uuid.UUID]string),
	}

	users, err := st.Users().FindByIDs(ctx, uniqueIDs(authorIDs))
	if err != nil {
		return refs, fmt.Errorf("resolve authors: %w", err)
	}
	for _, u := range users {
		refs.authors[u.ID] = u.FullName()
	}

	cats, err := st.Categories().FindByIDs(ctx, uniqueIDs(categoryIDs))
	if err != nil {
		return refs, fmt.Errorf("resolve categories: %w", err)
	}
	for _, c := range cats {
		refs.categories[c.ID] = c.Name
	}

	refs.tags, err = st.ArticleTags().TagNames(ctx, articleIDs)
	if err != nil {
		return refs, fmt.Errorf("resolve tags: %w", err)
	}
	return refs, nil
}

func (s *ArticleService) summaries(ctx context.Context, st store.Store, rows []models.Article) ([]ArticleSummary, error) {
	refs, err := s.resolve(ctx, st, rows)
	if err != nil {
		return nil, err
	}
	out := make([]ArticleSummary, len(rows))
	for i := range rows {
		a := &rows[i]
		out[i] = toArticleSummary(a, refs.authors[a.AuthorID], refs.categories[a.CategoryID], refs.tags[a.ID])
	}
	return out, nil
}

func (s *ArticleService) detail(ctx context.Context, st store.Store, a *models.Article) (*ArticleDetail, error) {
	refs, err := s.resolve(ctx, st, []models.Article{*a})
	if err != nil {
		return nil, err
	}

	links, err := st.ArticleTags().ListByArticle(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("list article tags: %w", err)
	}
	tagIDs := make([]uuid.UUID, len(links))
	for i, l := range links {
		tagIDs[i] = l.TagID
	}

	html, err := markdown.ToHTML(a.Content)
	if err != nil {
		return nil, fmt.Errorf("render article content: %w", err)
	}

	d := toArticleDetail(a, refs.authors[a.AuthorID], refs.categories[a.CategoryID], refs.tags[a.ID], tagIDs, html)
	return &d, nil
}

// GetByID returns any article by id, including unpublished and deleted ones.
func (s *ArticleService) GetByID(ctx context.Context, id uuid.UUID) (*ArticleDetail, error) {
	a, err := s.store.Articles().FindByID(ctx, id)
	if err != nil {
		s.opts.log.Error("get article failed", "id", id, "error", err)
		return nil, fmt.Errorf("get article: %w", err)
	}
	if a == nil {
		return nil, ErrNotFound
	}
	d, err := s.detail(ctx, s.store, a)
	if err != nil {
		s.opts.log.Error("get article failed", "id", id, "error", err)
		return nil, fmt.Errorf("get article: %w", err)
	}
	return d, nil
}

// GetBySlug returns a published, non-deleted article. Results are cached
// and concurrent misses for one slug share a single load.
func (s *ArticleService) GetBySlug(ctx context.Context, articleSlug string) (*ArticleDetail, error) {
	key := slugCacheKey(articleSlug)
	if s.opts.cache != nil {
		var cached ArticleDetail
		if s.opts.cache.Get(ctx, key, &cached) {
			return &cached, nil
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		a, err := s.store.Articles().FindBySlug(ctx, articleSlug)
		if err != nil {
			return nil, err
		}
		if a == nil || !a.IsPublished() {
			return nil, ErrNotFound
		}
		d, err := s.detail(ctx, s.store, a)
		if err != nil {
			return nil, err
		}
		if s.opts.cache != nil {
			s.opts.cache.Set(ctx, key, d)
		}
		return d, nil
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.opts.log.Error("get article by slug failed", "slug", articleSlug, "error", err)
		return nil, fmt.Errorf("get article by slug: %w", err)
	}

	d := *v.(*ArticleDetail)
	return &d, nil
}

// Create persists a new article and its tag links in one transaction and
// returns the reloaded detail.
func (s *ArticleService) Create(ctx context.Context, req ArticleRequest) (*ArticleDetail, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := checkRequest(req); err != nil {
		return nil, err
	}
	if req.AuthorID == uuid.Nil {
		return nil, invalid("author_id", "author_id is required")
	}

	now := s.opts.now()
	a := &models.Article{Entity: models.NewEntity(now), AuthorID: req.AuthorID}
	a.IsPublish = visibility(req.IsPublish)

	err := s.store.InTx(ctx, func(tx store.Store) error {
		author, err := tx.Users().FindByID(ctx, req.AuthorID)
		if err != nil {
			return fmt.Errorf("find author: %w", err)
		}
		if author == nil || author.IsDeleted {
			return invalid("author_id", "author does not exist")
		}

		tagIDs, err := s.prepare(ctx, tx, a, req)
		if err != nil {
			return err
		}
		a.StampPublished(now)

		if err := tx.Articles().Create(ctx, a); err != nil {
			return writeErr("create article", err)
		}
		return s.replaceTags(ctx, tx, a.ID, tagIDs, now)
	})
	if err != nil {
		return nil, err
	}

	s.opts.log.Info("article created", "id", a.ID, "slug", a.Slug)
	return s.reload(ctx, a.ID)
}

// Update overwrites the mutable fields of an article and replaces its tag
// set in one transaction.
func (s *ArticleService) Update(ctx context.Context, id uuid.UUID, req ArticleRequest) (*ArticleDetail, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	now := s.opts.now()
	var oldSlug, newSlug string
	err := s.store.InTx(ctx, func(tx store.Store) error {
		a, err := tx.Articles().FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("find article: %w", err)
		}
		if a == nil {
			return ErrNotFound
		}
		oldSlug = a.Slug

		tagIDs, err := s.prepare(ctx, tx, a, req)
		if err != nil {
			return err
		}
		if req.IsPublish != nil {
			a.IsPublish = *req.IsPublish
		}
		a.Touch(now)
		a.StampPublished(now)
		newSlug = a.Slug

		if err := tx.Articles().Update(ctx, a); err != nil {
			return writeErr("update article", err)
		}
		if _, err := tx.ArticleTags().DeleteByArticle(ctx, a.ID); err != nil {
			return fmt.Errorf("clear article tags: %w", err)
		}
		return s.replaceTags(ctx, tx, a.ID, tagIDs, now)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, oldSlug, newSlug)
	s.opts.log.Info("article updated", "id", id, "slug", newSlug)
	return s.reload(ctx, id)
}

// prepare checks the references in req and copies its fields onto a,
// returning the de-duplicated tag ids.
func (s *ArticleService) prepare(ctx context.Context, tx store.Store, a *models.Article, req ArticleRequest) ([]uuid.UUID, error) {
	// An article may stay in its current category and keep its current
	// tags while those are soft-deleted; only new references must be live.
	if req.CategoryID != a.CategoryID {
		if err := checkCategory(ctx, tx, req.CategoryID); err != nil {
			return nil, err
		}
	}
	links, err := tx.ArticleTags().ListByArticle(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("list article tags: %w", err)
	}
	linked := make(map[uuid.UUID]bool, len(links))
	for _, l := range links {
		linked[l.TagID] = true
	}
	tagIDs, err := checkTags(ctx, tx, req.TagIDs, linked)
	if err != nil {
		return nil, err
	}

	switch {
	case req.Slug != "":
		a.Slug, err = s.claimSlug(ctx, tx, a.ID, req.Slug)
	case a.Slug == "":
		a.Slug, err = s.generateSlug(ctx, tx, a.ID, req.Title)
	}
	if err != nil {
		return nil, err
	}

	a.Title = req.Title
	a.Content = req.Content
	a.Summary = req.Summary
	a.CoverImageURL = req.CoverImageURL
	a.MetaKeywords = req.MetaKeywords
	a.MetaDescription = req.MetaDescription
	a.CategoryID = req.CategoryID
	a.IsFeatured = req.IsFeatured
	a.IsOnHomePage = req.IsOnHomePage
	a.Status = req.Status
	a.ReadingTime = req.ReadingTime
	if a.ReadingTime == 0 {
		a.ReadingTime = markdown.ReadingTime(req.Content)
	}
	return tagIDs, nil
}

// claimSlug accepts an explicit slug unless another article holds it.
func (s *ArticleService) claimSlug(ctx context.Context, tx store.Store, self uuid.UUID, want string) (string, error) {
	other, err := tx.Articles().FindBySlug(ctx, want)
	if err != nil {
		return "", fmt.Errorf("check slug: %w", err)
	}
	if other != nil && other.ID != self {
		return "", fmt.Errorf("slug %q: %w", want, ErrConflict)
	}
	return want, nil
}

// generateSlug derives a free slug from title, suffixing -2, -3, ... on collision.
func (s *ArticleService) generateSlug(ctx context.Context, tx store.Store, self uuid.UUID, title string) (string, error) {
	base := slug.Generate(title)
	if base == "" {
		base = "article-" + self.String()[:8]
	}
	for n := 1; n <= maxSlugAttempts; n++ {
		candidate := slug.WithSuffix(base, n)
		other, err := tx.Articles().FindBySlug(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if other == nil || other.ID == self {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("slug %q: %w", base, ErrConflict)
}

func (s *ArticleService) replaceTags(ctx context.Context, tx store.Store, articleID uuid.UUID, tagIDs []uuid.UUID, now time.Time) error {
	if len(tagIDs) == 0 {
		return nil
	}
	links := make([]models.ArticleTag, len(tagIDs))
	for i, tagID := range tagIDs {
		links[i] = models.ArticleTag{Entity: models.NewEntity(now), ArticleID: articleID, TagID: tagID}
	}
	if err := tx.ArticleTags().Add(ctx, links); err != nil {
		return writeErr("link article tags", err)
	}
	return nil
}

// checkCategory requires id to name an existing, non-deleted category.
func checkCategory(ctx context.Context, tx store.Store, id uuid.UUID) error {
	c, err := tx.Categories().FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find category: %w", err)
	}
	if c == nil || c.IsDeleted {
		return invalid("category_id", "category %s does not exist", id)
	}
	return nil
}

// checkTags requires every id to name an existing, non-deleted tag or one
// already linked to the article.
func checkTags(ctx context.Context, tx store.Store, ids []uuid.UUID, linked map[uuid.UUID]bool) ([]uuid.UUID, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return ids, nil
	}
	tags, err := tx.Tags().FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find tags: %w", err)
	}
	live := make(map[uuid.UUID]bool, len(tags))
	for _, t := range tags {
		live[t.ID] = !t.IsDeleted
	}
	for _, id := range ids {
		if !live[id] && !linked[id] {
			return nil, invalid("tag_ids", "tag %s does not exist", id)
		}
	}
	return ids, nil
}

// reload reads back an article written moments ago.
func (s *ArticleService) reload(ctx context.Context, id uuid.UUID) (*ArticleDetail, error) {
	a, err := s.store.Articles().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload article: %w", err)
	}
	if a == nil {
		panic(&InvariantError{Entity: "article", ID: id})
	}
	d, err := s.detail(ctx, s.store, a)
	if err != nil {
		return nil, fmt.Errorf("reload article: %w", err)
	}
	return d, nil
}

// SoftDelete hides an article from every listing.
func (s *ArticleService) SoftDelete(ctx context.Context, id uuid.UUID) Outcome {
	now := s.opts.now()
	return s.mutate(ctx, "soft delete article", id, func(a *models.Article) { a.SoftDelete(now) })
}

// Restore undoes SoftDelete and makes the article visible again.
func (s *ArticleService) Restore(ctx context.Context, id uuid.UUID) Outcome {
	now := s.opts.now()
	return s.mutate(ctx, "restore article", id, func(a *models.Article) { a.Restore(now) })
}

func (s *ArticleService) mutate(ctx context.Context, op string, id uuid.UUID, fn func(a *models.Article)) Outcome {
	var articleSlug string
	err := s.store.InTx(ctx, func(tx store.Store) error {
		a, err := tx.Articles().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if a == nil {
			return ErrNotFound
		}
		fn(a)
		articleSlug = a.Slug
		return tx.Articles().Update(ctx, a)
	})
	out := outcomeOf(s.opts.log, op, id, err)
	if out == OK {
		s.invalidate(ctx, articleSlug)
	}
	return out
}

// IncrementView adds one view.
func (s *ArticleService) IncrementView(ctx context.Context, id uuid.UUID) Outcome {
	return s.increment(ctx, id, models.CounterViews)
}

// IncrementLike adds one like.
func (s *ArticleService) IncrementLike(ctx context.Context, id uuid.UUID) Outcome {
	return s.increment(ctx, id, models.CounterLikes)
}

// IncrementShare adds one share.
func (s *ArticleService) IncrementShare(ctx context.Context, id uuid.UUID) Outcome {
	return s.increment(ctx, id, models.CounterShares)
}

func (s *ArticleService) increment(ctx context.Context, id uuid.UUID, c models.ArticleCounter) Outcome {
	found, err := s.store.Articles().IncrementCounter(ctx, id, c, 1)
	if err == nil && !found {
		err = ErrNotFound
	}
	return outcomeOf(s.opts.log, "increment article "+string(c), id, err)
}

// adjustCommentCount moves an article's comment counter by delta, floored
// at zero, inside the caller's transaction.
func (s *ArticleService) adjustCommentCount(ctx context.Context, tx store.Store, articleID uuid.UUID, delta int) error {
	if delta == 0 {
		return nil
	}
	found, err := tx.Articles().IncrementCounter(ctx, articleID, models.CounterComments, delta)
	if err != nil {
		return fmt.Errorf("adjust comment count: %w", err)
	}
	if !found {
		return fmt.Errorf("adjust comment count of article %s: %w", articleID, ErrNotFound)
	}
	return nil
}

func (s *ArticleService) invalidate(ctx context.Context, slugs ...string) {
	if s.opts.cache == nil {
		return
	}
	keys := make([]string, 0, len(slugs))
	for _, sl := range slugs {
		if sl != "" {
			keys = append(keys, slugCacheKey(sl))
		}
	}
	s.opts.cache.Delete(ctx, keys...)
}
