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

// TagStore handles all tag-related database operations.
type TagStore struct {
	db DBTX
}

// NewTagStore creates a new TagStore with the given database handle.
func NewTagStore(db DBTX) *TagStore {
	return &TagStore{db: db}
}

const tagColumns = `id, name, slug, description, usage_count,
	created_at, modified_at, is_deleted, is_publish`

var tagSortColumns = map[string]string{
	SortUsage: "usage_count",
	SortName:  "name",
}

func scanTag(scanner interface{ Scan(...any) error }) (*models.Tag, error) {
	var t models.Tag
	err := scanner.Scan(
		&t.ID, &t.Name, &t.Slug, &t.Description, &t.UsageCount,
		&t.CreatedAt, &t.ModifiedAt, &t.IsDeleted, &t.IsPublish,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TagStore) query(ctx context.Context, op, query string, args ...any) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, *t)
	}
	return tags, rows.Err()
}

func (s *TagStore) findOne(ctx context.Context, op, query string, arg any) (*models.Tag, error) {
	t, err := scanTag(s.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// FindByID retrieves a tag by its UUID, deleted or not. Returns nil if not found.
func (s *TagStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	return s.findOne(ctx, "find tag by id", `SELECT `+tagColumns+` FROM tags WHERE id = $1`, id)
}

// FindBySlug retrieves a tag by its slug. Returns nil if not found.
func (s *TagStore) FindBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	return s.findOne(ctx, "find tag by slug", `SELECT `+tagColumns+` FROM tags WHERE slug = $1`, slug)
}

// FindByIDs retrieves the tags with the given ids, deleted or not.
func (s *TagStore) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ph, args := idArgs(ids)
	return s.query(ctx, "find tags by ids", `SELECT `+tagColumns+` FROM tags WHERE id IN (`+ph+`)`, args...)
}

// List returns one page of non-deleted tags, most used first.
func (s *TagStore) List(ctx context.Context, f TagFilter, p paging.Request) ([]models.Tag, int, error) {
	w := &where{}
	w.add("is_deleted = false")
	if term := strings.TrimSpace(f.Term); term != "" {
		pattern := likePattern(term)
		w.add("(name ILIKE ? OR COALESCE(description, '') ILIKE ?)", pattern, pattern)
	}
	if f.PublishedOnly {
		w.add("is_publish = true")
	}

	total, err := count(ctx, s.db, `SELECT COUNT(*) FROM tags`+w.String(), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("count tags: %w", err)
	}

	limit, args := w.page(p)
	tags, err := s.query(ctx, "list tags",
		`SELECT `+tagColumns+` FROM tags`+w.String()+orderBy(TagOrder, tagSortColumns)+limit, args...)
	if err != nil {
		return nil, 0, err
	}
	return tags, total, nil
}

// Create inserts a new tag.
func (s *TagStore) Create(ctx context.Context, t *models.Tag) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (`+tagColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.Name, t.Slug, t.Description, t.UsageCount,
		t.CreatedAt, t.ModifiedAt, t.IsDeleted, t.IsPublish,
	)
	if err != nil {
		return wrapErr("create tag", err)
	}
	return nil
}

// Update overwrites the mutable columns of a tag. UsageCount is left alone.
func (s *TagStore) Update(ctx context.Context, t *models.Tag) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE tags SET name = $1, slug = $2, description = $3,
			modified_at = $4, is_deleted = $5, is_publish = $6
		WHERE id = $7`,
		t.Name, t.Slug, t.Description, t.ModifiedAt, t.IsDeleted, t.IsPublish, t.ID,
	)
	if err != nil {
		return wrapErr("update tag", err)
	}
	return nil
}

// IncrementUsage adjusts usage_count by delta, flooring at zero.
func (s *TagStore) IncrementUsage(ctx context.Context, id uuid.UUID, delta int) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tags SET usage_count = GREATEST(usage_count + $2, 0) WHERE id = $1`, id, delta)
	if err != nil {
		return false, fmt.Errorf("increment tag usage: %w", err)
	}
	return affected(res)
}
