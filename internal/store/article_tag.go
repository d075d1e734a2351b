// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

// ArticleTagStore handles the article/tag join table.
type ArticleTagStore struct {
	db DBTX
}

// NewArticleTagStore creates a new ArticleTagStore with the given database handle.
func NewArticleTagStore(db DBTX) *ArticleTagStore {
	return &ArticleTagStore{db: db}
}

// Add inserts links. A repeated (article, tag) pair yields ErrDuplicate.
func (s *ArticleTagStore) Add(ctx context.Context, links []models.ArticleTag) error {
	for _, l := range links {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO article_tags (id, article_id, tag_id, created_at, modified_at, is_deleted, is_publish)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			l.ID, l.ArticleID, l.TagID, l.CreatedAt, l.ModifiedAt, l.IsDeleted, l.IsPublish,
		)
		if err != nil {
			return wrapErr("add article tag", err)
		}
	}
	return nil
}

// DeleteByArticle removes every link of an article and returns how many went.
func (s *ArticleTagStore) DeleteByArticle(ctx context.Context, articleID uuid.UUID) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM article_tags WHERE article_id = $1`, articleID)
	if err != nil {
		return 0, fmt.Errorf("delete article tags: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete article tags: %w", err)
	}
	return int(n), nil
}

// ListByArticle returns the links of one article.
func (s *ArticleTagStore) ListByArticle(ctx context.Context, articleID uuid.UUID) ([]models.ArticleTag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, article_id, tag_id, created_at, modified_at, is_deleted, is_publish
		FROM article_tags WHERE article_id = $1 ORDER BY created_at, id`, articleID)
	if err != nil {
		return nil, fmt.Errorf("list article tags: %w", err)
	}
	defer rows.Close()

	var links []models.ArticleTag
	for rows.Next() {
		var l models.ArticleTag
		if err := rows.Scan(&l.ID, &l.ArticleID, &l.TagID, &l.CreatedAt, &l.ModifiedAt, &l.IsDeleted, &l.IsPublish); err != nil {
			return nil, fmt.Errorf("scan article tag: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

// TagNames resolves tag names for a batch of articles in one query.
func (s *ArticleTagStore) TagNames(ctx context.Context, articleIDs []uuid.UUID) (map[uuid.UUID][]string, error) {
	names := make(map[uuid.UUID][]string, len(articleIDs))
	if len(articleIDs) == 0 {
		return names, nil
	}

	ph, args := idArgs(articleIDs)
	rows, err := s.db.QueryContext(ctx, `
		SELECT at.article_id, t.name
		FROM article_tags at
		JOIN tags t ON t.id = at.tag_id
		WHERE at.article_id IN (`+ph+`) AND t.is_deleted = false
		ORDER BY at.article_id, t.name`, args...)
	if err != nil {
		return nil, fmt.Errorf("list tag names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan tag name: %w", err)
		}
		names[id] = append(names[id], name)
	}
	return names, rows.Err()
}

// CountByTag returns how many live articles carry the tag.
func (s *ArticleTagStore) CountByTag(ctx context.Context, tagID uuid.UUID) (int, error) {
	n, err := count(ctx, s.db, `
		SELECT COUNT(*) FROM article_tags at
		JOIN articles a ON a.id = at.article_id
		WHERE at.tag_id = $1 AND a.is_deleted = false`, tagID)
	if err != nil {
		return 0, fmt.Errorf("count articles by tag: %w", err)
	}
	return n, nil
}
