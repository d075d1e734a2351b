// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"inkpress/internal/models"
	"inkpress/internal/paging"
)

// CategoryStore handles all category-related database operations.
type CategoryStore struct {
	db DBTX
}

// NewCategoryStore creates a new CategoryStore with the given database handle.
func NewCategoryStore(db DBTX) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, description, slug, icon, color, parent_category_id, sort_order,
	created_at, modified_at, is_deleted, is_publish`

var categorySortColumns = map[string]string{
	SortOrder: "sort_order",
	SortName:  "name",
}

func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Description, &c.Slug, &c.Icon, &c.Color, &c.ParentCategoryID, &c.Order,
		&c.CreatedAt, &c.ModifiedAt, &c.IsDeleted, &c.IsPublish,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CategoryStore) query(ctx context.Context, op, query string, args ...any) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, *c)
	}
	return cats, rows.Err()
}

// FindByID retrieves a category by its UUID, deleted or not. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindByIDs retrieves the categories with the given ids, deleted or not.
func (s *CategoryStore) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ph, args := idArgs(ids)
	return s.query(ctx, "find categories by ids",
		`SELECT `+categoryColumns+` FROM categories WHERE id IN (`+ph+`)`, args...)
}

// List returns one page of non-deleted categories ordered by sort order then name.
func (s *CategoryStore) List(ctx context.Context, f CategoryFilter, p paging.Request) ([]models.Category, int, error) {
	w := &where{}
	w.add("is_deleted = false")
	if term := strings.TrimSpace(f.Term); term != "" {
		pattern := likePattern(term)
		w.add("(name ILIKE ? OR COALESCE(description, '') ILIKE ?)", pattern, pattern)
	}
	if f.ParentID != nil {
		w.add("parent_category_id = ?", *f.ParentID)
	}
	if f.RootOnly {
		w.add("parent_category_id IS NULL")
	}

	total, err := count(ctx, s.db, `SELECT COUNT(*) FROM categories`+w.String(), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	limit, args := w.page(p)
	cats, err := s.query(ctx, "list categories",
		`SELECT `+categoryColumns+` FROM categories`+w.String()+orderBy(CategoryOrder, categorySortColumns)+limit,
		args...)
	if err != nil {
		return nil, 0, err
	}
	return cats, total, nil
}

// All returns every non-deleted category ordered by sort order then name.
func (s *CategoryStore) All(ctx context.Context) ([]models.Category, error) {
	return s.query(ctx, "list all categories",
		`SELECT `+categoryColumns+` FROM categories WHERE is_deleted = false`+orderBy(CategoryOrder, categorySortColumns))
}

// Children returns the non-deleted direct children of a category.
func (s *CategoryStore) Children(ctx context.Context, parentID uuid.UUID) ([]models.Category, error) {
	return s.query(ctx, "list child categories",
		`SELECT `+categoryColumns+` FROM categories
		WHERE parent_category_id = $1 AND is_deleted = false`+orderBy(CategoryOrder, categorySortColumns),
		parentID)
}

// Create inserts a new category.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (`+categoryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		c.ID, c.Name, c.Description, c.Slug, c.Icon, c.Color, c.ParentCategoryID, c.Order,
		c.CreatedAt, c.ModifiedAt, c.IsDeleted, c.IsPublish,
	)
	if err != nil {
		return wrapErr("create category", err)
	}
	return nil
}

// Update overwrites every mutable column of an existing category.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE categories SET
			name = $1, description = $2, slug = $3, icon = $4, color = $5,
			parent_category_id = $6, sort_order = $7,
			modified_at = $8, is_deleted = $9, is_publish = $10
		WHERE id = $11`,
		c.Name, c.Description, c.Slug, c.Icon, c.Color,
		c.ParentCategoryID, c.Order,
		c.ModifiedAt, c.IsDeleted, c.IsPublish, c.ID,
	)
	if err != nil {
		return wrapErr("update category", err)
	}
	return nil
}

// CountChildren returns the number of non-deleted direct children.
func (s *CategoryStore) CountChildren(ctx context.Context, id uuid.UUID) (int, error) {
	n, err := count(ctx, s.db,
		`SELECT COUNT(*) FROM categories WHERE parent_category_id = $1 AND is_deleted = false`, id)
	if err != nil {
		return 0, fmt.Errorf("count child categories: %w", err)
	}
	return n, nil
}

// CountArticles returns the number of non-deleted articles in a category.
func (s *CategoryStore) CountArticles(ctx context.Context, id uuid.UUID) (int, error) {
	n, err := count(ctx, s.db,
		`SELECT COUNT(*) FROM articles WHERE category_id = $1 AND is_deleted = false`, id)
	if err != nil {
		return 0, fmt.Errorf("count category articles: %w", err)
	}
	return n, nil
}
