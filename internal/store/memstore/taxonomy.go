// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package memstore

import (
	"cmp"
	"context"
	"strings"

	"github.com/google/uuid"

	"inkpress/internal/models"
	"inkpress/internal/paging"
	"inkpress/internal/store"
)

var categoryCmps = map[string]func(a, b models.Category) int{
	store.SortOrder: func(a, b models.Category) int { return cmp.Compare(a.Order, b.Order) },
	store.SortName:  func(a, b models.Category) int { return strings.Compare(a.Name, b.Name) },
}

func categoryID(c models.Category) uuid.UUID { return c.ID }

type categoryRepo struct{ s *Store }

func (r categoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	defer r.s.lock()()
	c, ok := r.s.db.data.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r categoryRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Category, error) {
	defer r.s.lock()()
	var cats []models.Category
	for _, id := range ids {
		if c, ok := r.s.db.data.categories[id]; ok {
			cats = append(cats, c)
		}
	}
	return cats, nil
}

func (r categoryRepo) filter(keep func(c *models.Category) bool) []models.Category {
	var cats []models.Category
	for _, c := range r.s.db.data.categories {
		if !c.IsDeleted && keep(&c) {
			cats = append(cats, c)
		}
	}
	sortRows(cats, store.CategoryOrder, categoryCmps, categoryID)
	return cats
}

func (r categoryRepo) List(ctx context.Context, f store.CategoryFilter, p paging.Request) ([]models.Category, int, error) {
	defer r.s.lock()()
	term := strings.TrimSpace(f.Term)
	cats := r.filter(func(c *models.Category) bool {
		if term != "" && !containsFold(term, c.Name, deref(c.Description)) {
			return false
		}
		if f.ParentID != nil && (c.ParentCategoryID == nil || *c.ParentCategoryID != *f.ParentID) {
			return false
		}
		if f.RootOnly && c.HasParent() {
			return false
		}
		return true
	})
	return paging.Window(cats, p), len(cats), nil
}

func (r categoryRepo) All(ctx context.Context) ([]models.Category, error) {
	defer r.s.lock()()
	return r.filter(func(*models.Category) bool { return true }), nil
}

func (r categoryRepo) Children(ctx context.Context, parentID uuid.UUID) ([]models.Category, error) {
	defer r.s.lock()()
	return r.filter(func(c *models.Category) bool {
		return c.ParentCategoryID != nil && *c.ParentCategoryID == parentID
	}), nil
}

func (r categoryRepo) check(op string, c *models.Category) error {
	for _, other := range r.s.db.data.categories {
		if other.ID != c.ID && other.Slug == c.Slug {
			return dupErr(op, "categories_slug_key")
		}
	}
	if c.ParentCategoryID != nil {
		if _, ok := r.s.db.data.categories[*c.ParentCategoryID]; !ok {
			return fkErr(op, "categories_parent_category_id_fkey")
		}
	}
	return nil
}

func (r categoryRepo) Create(ctx context.Context, c *models.Category) error {
	defer r.s.lock()()
	if _, ok := r.s.db.data.categories[c.ID]; ok {
		return dupErr("create category", "categories_pkey")
	}
	if err := r.check("create category", c); err != nil {
		return err
	}
	r.s.db.data.categories[c.ID] = *c
	return nil
}

func (r categoryRepo) Update(ctx context.Context, c *models.Category) error {
	defer r.s.lock()()
	cur, ok := r.s.db.data.categories[c.ID]
	if !ok {
		return nil
	}
	if err := r.check("update category", c); err != nil {
		return err
	}
	next := *c
	next.CreatedAt = cur.CreatedAt
	r.s.db.data.categories[c.ID] = next
	return nil
}

func (r categoryRepo) CountChildren(ctx context.Context, id uuid.UUID) (int, error) {
	defer r.s.lock()()
	n := 0
	for _, c := range r.s.db.data.categories {
		if !c.IsDeleted && c.ParentCategoryID != nil && *c.ParentCategoryID == id {
			n++
		}
	}
	return n, nil
}

func (r categoryRepo) CountArticles(ctx context.Context, id uuid.UUID) (int, error) {
	defer r.s.lock()()
	n := 0
	for _, a := range r.s.db.data.articles {
		if !a.IsDeleted && a.CategoryID == id {
			n++
		}
	}
	return n, nil
}

var tagCmps = map[string]func(a, b models.Tag) int{
	store.SortUsage: func(a, b models.Tag) int { return cmp.Compare(a.UsageCount, b.UsageCount) },
	store.SortName:  func(a, b models.Tag) int { return strings.Compare(a.Name, b.Name) },
}

type tagRepo struct{ s *Store }

func (r tagRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	defer r.s.lock()()
	t, ok := r.s.db.data.tags[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r tagRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error) {
	defer r.s.lock()()
	var tags []models.Tag
	for _, id := range ids {
		if t, ok := r.s.db.data.tags[id]; ok {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

func (r tagRepo) FindBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	defer r.s.lock()()
	for _, t := range r.s.db.data.tags {
		if t.Slug == slug {
			return &t, nil
		}
	}
	return nil, nil
}

func (r tagRepo) List(ctx context.Context, f store.TagFilter, p paging.Request) ([]models.Tag, int, error) {
	defer r.s.lock()()
	term := strings.TrimSpace(f.Term)
	var tags []models.Tag
	for _, t := range r.s.db.data.tags {
		if t.IsDeleted {
			continue
		}
		if term != "" && !containsFold(term, t.Name, deref(t.Description)) {
			continue
		}
		if f.PublishedOnly && !t.IsPublish {
			continue
		}
		tags = append(tags, t)
	}
	sortRows(tags, store.TagOrder, tagCmps, func(t models.Tag) uuid.UUID { return t.ID })
	return paging.Window(tags, p), len(tags), nil
}

func (r tagRepo) check(op string, t *models.Tag) error {
	for _, other := range r.s.db.data.tags {
		if other.ID == t.ID {
			continue
		}
		if other.Name == t.Name {
			return dupErr(op, "tags_name_key")
		}
		if other.Slug == t.Slug {
			return dupErr(op, "tags_slug_key")
		}
	}
	return nil
}

func (r tagRepo) Create(ctx context.Context, t *models.Tag) error {
	defer r.s.lock()()
	if _, ok := r.s.db.data.tags[t.ID]; ok {
		return dupErr("create tag", "tags_pkey")
	}
	if err := r.check("create tag", t); err != nil {
		return err
	}
	r.s.db.data.tags[t.ID] = *t
	return nil
}

func (r tagRepo) Update(ctx context.Context, t *models.Tag) error {
	defer r.s.lock()()
	cur, ok := r.s.db.data.tags[t.ID]
	if !ok {
		return nil
	}
	if err := r.check("update tag", t); err != nil {
		return err
	}
	next := *t
	next.CreatedAt = cur.CreatedAt
	next.UsageCount = cur.UsageCount
	r.s.db.data.tags[t.ID] = next
	return nil
}

func (r tagRepo) IncrementUsage(ctx context.Context, id uuid.UUID, delta int) (bool, error) {
	defer r.s.lock()()
	t, ok := r.s.db.data.tags[id]
	if !ok {
		return false, nil
	}
	t.UsageCount = max(t.UsageCount+delta, 0)
	r.s.db.data.tags[id] = t
	return true, nil
}

