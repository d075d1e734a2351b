// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"inkpress/internal/models"
	"inkpress/internal/paging"
	"inkpress/internal/slug"
	"inkpress/internal/store"
)

// CategoryService manages the category hierarchy. Every listing is ordered
// by (Order, Name).
type CategoryService struct {
	store store.Store
	opts  options
}

// NewCategoryService creates a CategoryService over s.
func NewCategoryService(s store.Store, opts ...Option) *CategoryService {
	return &CategoryService{store: s, opts: buildOptions("categories", opts)}
}

// List returns one page of non-deleted categories.
func (s *CategoryService) List(ctx context.Context, c CategoryCriteria) (paging.Page[CategorySummary], error) {
	p := c.Request.Normalize()
	rows, total, err := s.store.Categories().List(ctx, store.CategoryFilter{Term: c.Term, ParentID: c.ParentID, RootOnly: c.RootOnly}, p)
	if err != nil {
		s.opts.log.Error("list categories failed", "error", err)
		return paging.Page[CategorySummary]{}, fmt.Errorf("list categories: %w", err)
	}
	items, err := s.summaries(ctx, rows, nil)
	if err != nil {
		s.opts.log.Error("list categories failed", "error", err)
		return paging.Page[CategorySummary]{}, fmt.Errorf("list categories: %w", err)
	}
	return paging.New(items, total, p), nil
}

// GetAll returns every non-deleted category as a flat, ordered list.
func (s *CategoryService) GetAll(ctx context.Context) ([]CategorySummary, error) {
	rows, err := s.store.Categories().All(ctx)
	if err != nil {
		s.opts.log.Error("list all categories failed", "error", err)
		return nil, fmt.Errorf("list all categories: %w", err)
	}
	items, err := s.summaries(ctx, rows, rows)
	if err != nil {
		s.opts.log.Error("list all categories failed", "error", err)
		return nil, fmt.Errorf("list all categories: %w", err)
	}
	return items, nil
}

// GetTree returns the non-deleted categories nested under their parents.
func (s *CategoryService) GetTree(ctx context.Context) ([]CategoryNode, error) {
	rows, err := s.store.Categories().All(ctx)
	if err != nil {
		s.opts.log.Error("build category tree failed", "error", err)
		return nil, fmt.Errorf("build category tree: %w", err)
	}
	return buildTree(rows), nil
}

// GetChildren returns the non-deleted direct children of parentID.
func (s *CategoryService) GetChildren(ctx context.Context, parentID uuid.UUID) ([]CategorySummary, error) {
	rows, err := s.store.Categories().Children(ctx, parentID)
	if err != nil {
		s.opts.log.Error("list child categories failed", "parent_id", parentID, "error", err)
		return nil, fmt.Errorf("list child categories: %w", err)
	}
	items, err := s.summaries(ctx, rows, nil)
	if err != nil {
		s.opts.log.Error("list child categories failed", "parent_id", parentID, "error", err)
		return nil, fmt.Errorf("list child categories: %w", err)
	}
	return items, nil
}

// summaries maps rows, resolving parent names from known first and the
// store for anything missing.
func (s *CategoryService) summaries(ctx context.Context, rows, known []models.Category) ([]CategorySummary, error) {
	names := make(map[uuid.UUID]string, len(known))
	for _, c := range known {
		names[c.ID] = c.Name
	}
	var missing []uuid.UUID
	for _, c := range rows {
		if c.ParentCategoryID != nil {
			if _, ok := names[*c.ParentCategoryID]; !ok {
				missing = append(missing, *c.ParentCategoryID)
			}
		}
	}
	if len(missing) > 0 {
		parents, err := s.store.Categories().FindByIDs(ctx, uniqueIDs(missing))
		if err != nil {
			return nil, fmt.Errorf("resolve parent categories: %w", err)
		}
		for _, p := range parents {
			names[p.ID] = p.Name
		}
	}

	out := make([]CategorySummary, len(rows))
	for i := range rows {
		c := &rows[i]
		var parentName string
		if c.ParentCategoryID != nil {
			parentName = names[*c.ParentCategoryID]
		}
		out[i] = toCategorySummary(c, parentName)
	}
	return out, nil
}

// GetByID returns a category, deleted or not, with its aggregate counts.
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryDetail, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		s.opts.log.Error("get category failed", "id", id, "error", err)
		return nil, fmt.Errorf("get category: %w", err)
	}
	if d == nil {
		return nil, ErrNotFound
	}
	return d, nil
}

func (s *CategoryService) load(ctx context.Context, id uuid.UUID) (*CategoryDetail, error) {
	repo := s.store.Categories()
	c, err := repo.FindByID(ctx, id)
	if err != nil || c == nil {
		return nil, err
	}

	var parentName string
	if c.ParentCategoryID != nil {
		parent, err := repo.FindByID(ctx, *c.ParentCategoryID)
		if err != nil {
			return nil, err
		}
		if parent != nil {
			parentName = parent.Name
		}
	}

	children, err := repo.CountChildren(ctx, id)
	if err != nil {
		return nil, err
	}
	articles, err := repo.CountArticles(ctx, id)
	if err != nil {
		return nil, err
	}

	d := toCategoryDetail(c, parentName, children, articles)
	return &d, nil
}

// Create adds a category.
func (s *CategoryService) Create(ctx context.Context, req CategoryRequest) (*CategoryDetail, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	now := s.opts.now()
	c := &models.Category{Entity: models.NewEntity(now)}
	c.IsPublish = visibility(req.IsPublish)

	err := s.store.InTx(ctx, func(tx store.Store) error {
		if err := checkParent(ctx, tx, c.ID, nil, req.ParentCategoryID); err != nil {
			return err
		}
		applyCategory(c, req)
		if err := tx.Categories().Create(ctx, c); err != nil {
			return writeErr("create category", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.opts.log.Info("category created", "id", c.ID, "slug", c.Slug)
	return s.reload(ctx, c.ID)
}

// Update overwrites every mutable field of a category. Moving a category
// under itself or one of its descendants is rejected.
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req CategoryRequest) (*CategoryDetail, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	now := s.opts.now()
	err := s.store.InTx(ctx, func(tx store.Store) error {
		c, err := tx.Categories().FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("find category: %w", err)
		}
		if c == nil {
			return ErrNotFound
		}
		if err := checkParent(ctx, tx, id, c.ParentCategoryID, req.ParentCategoryID); err != nil {
			return err
		}
		applyCategory(c, req)
		if req.IsPublish != nil {
			c.IsPublish = *req.IsPublish
		}
		c.Touch(now)
		if err := tx.Categories().Update(ctx, c); err != nil {
			return writeErr("update category", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.opts.clearCache(ctx)
	s.opts.log.Info("category updated", "id", id)
	return s.reload(ctx, id)
}

// applyCategory copies req onto c. A slug taken by another category surfaces as
// ErrConflict when the row is written.
func applyCategory(c *models.Category, req CategoryRequest) {
	want := req.Slug
	if want == "" {
		want = slug.Generate(req.Name)
		if want == "" {
			want = "category-" + c.ID.String()[:8]
		}
	}

	c.Name = req.Name
	c.Description = req.Description
	c.Slug = want
	c.Icon = req.Icon
	c.Color = req.Color
	c.ParentCategoryID = req.ParentCategoryID
	c.Order = req.Order
}

// checkParent requires a new parentID to name an existing, non-deleted
// category that is neither self nor one of self's descendants. Keeping the
// current parent is always allowed, even while that parent is soft-deleted.
func checkParent(ctx context.Context, tx store.Store, self uuid.UUID, current, parentID *uuid.UUID) error {
	if parentID == nil || sameID(current, parentID) {
		return nil
	}
	if *parentID == self {
		return invalid("parent_category_id", "a category cannot be its own parent")
	}

	repo := tx.Categories()
	parent, err := repo.FindByID(ctx, *parentID)
	if err != nil {
		return fmt.Errorf("find parent category: %w", err)
	}
	if parent == nil || parent.IsDeleted {
		return invalid("parent_category_id", "parent category %s does not exist", *parentID)
	}

	// Walk up from the new parent; reaching self means a cycle.
	seen := map[uuid.UUID]bool{parent.ID: true}
	for cur := parent; cur.ParentCategoryID != nil; {
		next := *cur.ParentCategoryID
		if next == self {
			return invalid("parent_category_id", "category cannot be moved under its own descendant")
		}
		if seen[next] {
			break
		}
		seen[next] = true
		cur, err = repo.FindByID(ctx, next)
		if err != nil {
			return fmt.Errorf("walk category ancestors: %w", err)
		}
		if cur == nil {
			break
		}
	}
	return nil
}

func (s *CategoryService) reload(ctx context.Context, id uuid.UUID) (*CategoryDetail, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload category: %w", err)
	}
	if d == nil {
		panic(&InvariantError{Entity: "category", ID: id})
	}
	return d, nil
}

// SoftDelete hides a category from every listing. Its children keep
// their parent reference.
func (s *CategoryService) SoftDelete(ctx context.Context, id uuid.UUID) Outcome {
	now := s.opts.now()
	return s.mutate(ctx, "soft delete category", id, func(c *models.Category) { c.SoftDelete(now) })
}

// Restore undoes SoftDelete.
func (s *CategoryService) Restore(ctx context.Context, id uuid.UUID) Outcome {
	now := s.opts.now()
	return s.mutate(ctx, "restore category", id, func(c *models.Category) { c.Restore(now) })
}

func (s *CategoryService) mutate(ctx context.Context, op string, id uuid.UUID, fn func(c *models.Category)) Outcome {
	err := s.store.InTx(ctx, func(tx store.Store) error {
		c, err := tx.Categories().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return ErrNotFound
		}
		fn(c)
		return tx.Categories().Update(ctx, c)
	})
	if err == nil {
		s.opts.clearCache(ctx)
	}
	return outcomeOf(s.opts.log, op, id, err)
}

func sameID(a, b *uuid.UUID) bool {
	return a != nil && b != nil && *a == *b
}
