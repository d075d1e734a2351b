// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkpress/internal/models"
	"inkpress/internal/paging"
)

// CommentStore handles all comment-related database operations.
type CommentStore struct {
	db DBTX
}

// NewCommentStore creates a new CommentStore with the given database handle.
func NewCommentStore(db DBTX) *CommentStore {
	return &CommentStore{db: db}
}

const commentColumns = `id, content, article_id, user_id, parent_comment_id, like_count,
	status, ip_address, user_agent, created_at, modified_at, is_deleted, is_publish`

var commentSortColumns = map[string]string{
	SortCreated: "created_at",
}

func scanComment(scanner interface{ Scan(...any) error }) (*models.Comment, error) {
	var c models.Comment
	err := scanner.Scan(
		&c.ID, &c.Content, &c.ArticleID, &c.UserID, &c.ParentCommentID, &c.LikeCount,
		&c.Status, &c.IPAddress, &c.UserAgent, &c.CreatedAt, &c.ModifiedAt, &c.IsDeleted, &c.IsPublish,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindByID retrieves a comment by its UUID, deleted or not. Returns nil if not found.
func (s *CommentStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// List returns one page of non-deleted comments matching f.
func (s *CommentStore) List(ctx context.Context, f CommentFilter, orders []paging.Order, p paging.Request) ([]models.Comment, int, error) {
	w := &where{}
	w.add("is_deleted = false")
	if f.ArticleID != nil {
		w.add("article_id = ?", *f.ArticleID)
	}
	if f.UserID != nil {
		w.add("user_id = ?", *f.UserID)
	}
	if f.ParentID != nil {
		w.add("parent_comment_id = ?", *f.ParentID)
	}
	if f.Status != nil {
		w.add("status = ?", int(*f.Status))
	}

	total, err := count(ctx, s.db, `SELECT COUNT(*) FROM comments`+w.String(), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	limit, args := w.page(p)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments`+w.String()+orderBy(orders, commentSortColumns)+limit,
		args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var items []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, *c)
	}
	return items, total, rows.Err()
}

// Create inserts a new comment.
func (s *CommentStore) Create(ctx context.Context, c *models.Comment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (`+commentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		c.ID, c.Content, c.ArticleID, c.UserID, c.ParentCommentID, c.LikeCount,
		int(c.Status), c.IPAddress, c.UserAgent, c.CreatedAt, c.ModifiedAt, c.IsDeleted, c.IsPublish,
	)
	if err != nil {
		return wrapErr("create comment", err)
	}
	return nil
}

// Update overwrites the mutable columns of a comment. LikeCount is left alone.
func (s *CommentStore) Update(ctx context.Context, c *models.Comment) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE comments SET content = $1, status = $2,
			modified_at = $3, is_deleted = $4, is_publish = $5
		WHERE id = $6`,
		c.Content, int(c.Status), c.ModifiedAt, c.IsDeleted, c.IsPublish, c.ID,
	)
	if err != nil {
		return wrapErr("update comment", err)
	}
	return nil
}

// IncrementLike adds one like to a non-deleted comment.
func (s *CommentStore) IncrementLike(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE comments SET like_count = like_count + 1 WHERE id = $1 AND is_deleted = false`, id)
	if err != nil {
		return false, fmt.Errorf("increment comment like: %w", err)
	}
	return affected(res)
}

// CountReplies counts approved, non-deleted replies for each parent.
func (s *CommentStore) CountReplies(ctx context.Context, parentIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(parentIDs))
	if len(parentIDs) == 0 {
		return counts, nil
	}

	ph, args := idArgs(parentIDs)
	args = append(args, int(models.CommentStatusApproved))
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT parent_comment_id, COUNT(*) FROM comments
		WHERE parent_comment_id IN (%s) AND is_deleted = false AND status = $%d
		GROUP BY parent_comment_id`, ph, len(args)), args...)
	if err != nil {
		return nil, fmt.Errorf("count replies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan reply count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}
