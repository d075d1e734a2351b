// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package memstore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"inkpress/internal/models"
	"inkpress/internal/paging"
	"inkpress/internal/store"
)

var articleCmps = map[string]func(a, b models.Article) int{
	store.SortTitle:     func(a, b models.Article) int { return strings.Compare(a.Title, b.Title) },
	store.SortCreated:   func(a, b models.Article) int { return a.CreatedAt.Compare(b.CreatedAt) },
	store.SortPublished: func(a, b models.Article) int { return compareTimePtr(a.PublishedAt, b.PublishedAt) },
	store.SortViews:     func(a, b models.Article) int { return cmp.Compare(a.ViewCount, b.ViewCount) },
	store.SortLikes:     func(a, b models.Article) int { return cmp.Compare(a.LikeCount, b.LikeCount) },
	store.SortRecent:    func(a, b models.Article) int { return a.SortTime().Compare(b.SortTime()) },
}

type articleRepo struct{ s *Store }

func (r articleRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	defer r.s.lock()()
	a, ok := r.s.db.data.articles[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r articleRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Article, error) {
	defer r.s.lock()()
	var rows []models.Article
	for _, id := range ids {
		if a, ok := r.s.db.data.articles[id]; ok {
			rows = append(rows, a)
		}
	}
	return rows, nil
}

func (r articleRepo) FindBySlug(ctx context.Context, slug string) (*models.Article, error) {
	defer r.s.lock()()
	for _, a := range r.s.db.data.articles {
		if a.Slug == slug {
			return &a, nil
		}
	}
	return nil, nil
}

func matchArticle(a *models.Article, f store.ArticleFilter) bool {
	if a.IsDeleted {
		return false
	}
	if term := strings.TrimSpace(f.Term); term != "" && !containsFold(term, a.Title, deref(a.Summary), a.Content) {
		return false
	}
	if f.CategoryID != nil && a.CategoryID != *f.CategoryID {
		return false
	}
	if f.AuthorID != nil && a.AuthorID != *f.AuthorID {
		return false
	}
	if f.Status != nil && a.Status != *f.Status {
		return false
	}
	if f.IsFeatured != nil && a.IsFeatured != *f.IsFeatured {
		return false
	}
	if f.IsOnHomePage != nil && a.IsOnHomePage != *f.IsOnHomePage {
		return false
	}
	if f.CreatedFrom != nil && a.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && a.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	if f.PublishedOnly && !a.IsPublished() {
		return false
	}
	return true
}

func (r articleRepo) Search(ctx context.Context, f store.ArticleFilter, orders []paging.Order, p paging.Request) ([]models.Article, int, error) {
	defer r.s.lock()()
	var rows []models.Article
	for _, a := range r.s.db.data.articles {
		if matchArticle(&a, f) {
			rows = append(rows, a)
		}
	}
	sortRows(rows, orders, articleCmps, func(a models.Article) uuid.UUID { return a.ID })
	return paging.Window(rows, p), len(rows), nil
}

// checkArticle enforces the slug and reference constraints for a.
func (r articleRepo) checkArticle(op string, a *models.Article) error {
	d := &r.s.db.data
	for _, other := range d.articles {
		if other.ID != a.ID && other.Slug == a.Slug {
			return dupErr(op, "articles_slug_key")
		}
	}
	if _, ok := d.users[a.AuthorID]; !ok {
		return fkErr(op, "articles_author_id_fkey")
	}
	if _, ok := d.categories[a.CategoryID]; !ok {
		return fkErr(op, "articles_category_id_fkey")
	}
	return nil
}

func (r articleRepo) Create(ctx context.Context, a *models.Article) error {
	defer r.s.lock()()
	if _, ok := r.s.db.data.articles[a.ID]; ok {
		return dupErr("create article", "articles_pkey")
	}
	if err := r.checkArticle("create article", a); err != nil {
		return err
	}
	r.s.db.data.articles[a.ID] = *a
	return nil
}

func (r articleRepo) Update(ctx context.Context, a *models.Article) error {
	defer r.s.lock()()
	cur, ok := r.s.db.data.articles[a.ID]
	if !ok {
		return nil
	}
	if err := r.checkArticle("update article", a); err != nil {
		return err
	}
	next := *a
	next.AuthorID = cur.AuthorID
	next.CreatedAt = cur.CreatedAt
	next.ViewCount = cur.ViewCount
	next.LikeCount = cur.LikeCount
	next.CommentCount = cur.CommentCount
	next.ShareCount = cur.ShareCount
	r.s.db.data.articles[a.ID] = next
	return nil
}

func (r articleRepo) IncrementCounter(ctx context.Context, id uuid.UUID, c models.ArticleCounter, delta int) (bool, error) {
	if !c.Valid() {
		return false, fmt.Errorf("increment article counter: unknown counter %q", c)
	}
	defer r.s.lock()()
	a, ok := r.s.db.data.articles[id]
	if !ok {
		return false, nil
	}
	a.AddToCounter(c, delta)
	r.s.db.data.articles[id] = a
	return true, nil
}

func (r articleRepo) ReconcileCommentCounts(ctx context.Context, counted []models.CommentStatus) (int, error) {
	defer r.s.lock()()
	d := &r.s.db.data

	actual := make(map[uuid.UUID]int)
	for _, c := range d.comments {
		if !c.IsDeleted && slices.Contains(counted, c.Status) {
			actual[c.ArticleID]++
		}
	}

	changed := 0
	for id, a := range d.articles {
		if a.CommentCount != actual[id] {
			a.CommentCount = actual[id]
			d.articles[id] = a
			changed++
		}
	}
	return changed, nil
}

type articleTagRepo struct{ s *Store }

func (r articleTagRepo) Add(ctx context.Context, links []models.ArticleTag) error {
	defer r.s.lock()()
	d := &r.s.db.data
	for _, l := range links {
		if _, ok := d.articles[l.ArticleID]; !ok {
			return fkErr("add article tag", "article_tags_article_id_fkey")
		}
		if _, ok := d.tags[l.TagID]; !ok {
			return fkErr("add article tag", "article_tags_tag_id_fkey")
		}
		for _, other := range d.articleTags {
			if other.ArticleID == l.ArticleID && other.TagID == l.TagID {
				return dupErr("add article tag", "article_tags_article_id_tag_id_key")
			}
		}
		d.articleTags[l.ID] = l
	}
	return nil
}

func (r articleTagRepo) DeleteByArticle(ctx context.Context, articleID uuid.UUID) (int, error) {
	defer r.s.lock()()
	n := 0
	for id, l := range r.s.db.data.articleTags {
		if l.ArticleID == articleID {
			delete(r.s.db.data.articleTags, id)
			n++
		}
	}
	return n, nil
}

func (r articleTagRepo) ListByArticle(ctx context.Context, articleID uuid.UUID) ([]models.ArticleTag, error) {
	defer r.s.lock()()
	var links []models.ArticleTag
	for _, l := range r.s.db.data.articleTags {
		if l.ArticleID == articleID {
			links = append(links, l)
		}
	}
	slices.SortFunc(links, func(a, b models.ArticleTag) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return compareID(a.ID, b.ID)
	})
	return links, nil
}

func (r articleTagRepo) TagNames(ctx context.Context, articleIDs []uuid.UUID) (map[uuid.UUID][]string, error) {
	defer r.s.lock()()
	d := &r.s.db.data
	names := make(map[uuid.UUID][]string, len(articleIDs))
	for _, l := range d.articleTags {
		if !slices.Contains(articleIDs, l.ArticleID) {
			continue
		}
		if t, ok := d.tags[l.TagID]; ok && !t.IsDeleted {
			names[l.ArticleID] = append(names[l.ArticleID], t.Name)
		}
	}
	for _, n := range names {
		slices.Sort(n)
	}
	return names, nil
}

func (r articleTagRepo) CountByTag(ctx context.Context, tagID uuid.UUID) (int, error) {
	defer r.s.lock()()
	d := &r.s.db.data
	n := 0
	for _, l := range d.articleTags {
		if l.TagID != tagID {
			continue
		}
		if a, ok := d.articles[l.ArticleID]; ok && !a.IsDeleted {
			n++
		}
	}
	return n, nil
}
