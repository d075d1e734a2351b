// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"inkpress/internal/models"
	"inkpress/internal/paging"
)

// ArticleStore handles all article-related database operations.
type ArticleStore struct {
	db DBTX
}

// NewArticleStore creates a new ArticleStore with the given database handle.
func NewArticleStore(db DBTX) *ArticleStore {
	return &ArticleStore{db: db}
}

const articleColumns = `id, title, content, summary, slug, cover_image_url,
	meta_keywords, meta_description, author_id, category_id, published_at,
	view_count, like_count, comment_count, share_count, is_featured,
	is_on_home_page, status, reading_time,
	created_at, modified_at, is_deleted, is_publish`

// articleSortColumns maps logical sort fields to SQL expressions.
var articleSortColumns = map[string]string{
	SortTitle:     "title",
	SortCreated:   "created_at",
	SortPublished: "published_at",
	SortViews:     "view_count",
	SortLikes:     "like_count",
	SortRecent:    "COALESCE(published_at, created_at)",
}

// scanArticle scans a row into an Article struct.
func scanArticle(scanner interface{ Scan(...any) error }) (*models.Article, error) {
	var a models.Article
	err := scanner.Scan(
		&a.ID, &a.Title, &a.Content, &a.Summary, &a.Slug, &a.CoverImageURL,
		&a.MetaKeywords, &a.MetaDescription, &a.AuthorID, &a.CategoryID, &a.PublishedAt,
		&a.ViewCount, &a.LikeCount, &a.CommentCount, &a.ShareCount, &a.IsFeatured,
		&a.IsOnHomePage, &a.Status, &a.ReadingTime,
		&a.CreatedAt, &a.ModifiedAt, &a.IsDeleted, &a.IsPublish,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByID retrieves an article by its UUID, deleted or not. Returns nil if not found.
func (s *ArticleStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by id: %w", err)
	}
	return a, nil
}

// FindByIDs retrieves the articles with the given ids, deleted or not.
func (s *ArticleStore) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ph, args := idArgs(ids)
	rows, err := s.db.QueryContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE id IN (`+ph+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("find articles by ids: %w", err)
	}
	defer rows.Close()

	var items []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// FindBySlug retrieves an article by its slug. Returns nil if not found.
func (s *ArticleStore) FindBySlug(ctx context.Context, slug string) (*models.Article, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE slug = $1`, slug)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by slug: %w", err)
	}
	return a, nil
}

// Search returns one page of non-deleted articles matching f, plus the
// total number of matches.
func (s *ArticleStore) Search(ctx context.Context, f ArticleFilter, orders []paging.Order, p paging.Request) ([]models.Article, int, error) {
	w := &where{}
	w.add("is_deleted = false")
	if term := strings.TrimSpace(f.Term); term != "" {
		pattern := likePattern(term)
		w.add("(title ILIKE ? OR COALESCE(summary, '') ILIKE ? OR content ILIKE ?)", pattern, pattern, pattern)
	}
	if f.CategoryID != nil {
		w.add("category_id = ?", *f.CategoryID)
	}
	if f.AuthorID != nil {
		w.add("author_id = ?", *f.AuthorID)
	}
	if f.Status != nil {
		w.add("status = ?", int(*f.Status))
	}
	if f.IsFeatured != nil {
		w.add("is_featured = ?", *f.IsFeatured)
	}
	if f.IsOnHomePage != nil {
		w.add("is_on_home_page = ?", *f.IsOnHomePage)
	}
	if f.CreatedFrom != nil {
		w.add("created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		w.add("created_at <= ?", *f.CreatedTo)
	}
	if f.PublishedOnly {
		w.add("is_publish = true AND status = ?", int(models.ArticleStatusPublished))
	}

	total, err := count(ctx, s.db, `SELECT COUNT(*) FROM articles`+w.String(), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	limit, args := w.page(p)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+articleColumns+` FROM articles`+w.String()+orderBy(orders, articleSortColumns)+limit,
		args...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("search articles: %w", err)
	}
	defer rows.Close()

	var items []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan article: %w", err)
		}
		items = append(items, *a)
	}
	return items, total, rows.Err()
}

// Create inserts a new article.
func (s *ArticleStore) Create(ctx context.Context, a *models.Article) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO articles (`+articleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		        $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)`,
		a.ID, a.Title, a.Content, a.Summary, a.Slug, a.CoverImageURL,
		a.MetaKeywords, a.MetaDescription, a.AuthorID, a.CategoryID, a.PublishedAt,
		a.ViewCount, a.LikeCount, a.CommentCount, a.ShareCount, a.IsFeatured,
		a.IsOnHomePage, int(a.Status), a.ReadingTime,
		a.CreatedAt, a.ModifiedAt, a.IsDeleted, a.IsPublish,
	)
	if err != nil {
		return wrapErr("create article", err)
	}
	return nil
}

// Update overwrites every mutable column of an existing article. Counters
// are left alone; they only change through IncrementCounter.
func (s *ArticleStore) Update(ctx context.Context, a *models.Article) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE articles SET
			title = $1, content = $2, summary = $3, slug = $4, cover_image_url = $5,
			meta_keywords = $6, meta_description = $7, category_id = $8, published_at = $9,
			is_featured = $10, is_on_home_page = $11, status = $12, reading_time = $13,
			modified_at = $14, is_deleted = $15, is_publish = $16
		WHERE id = $17`,
		a.Title, a.Content, a.Summary, a.Slug, a.CoverImageURL,
		a.MetaKeywords, a.MetaDescription, a.CategoryID, a.PublishedAt,
		a.IsFeatured, a.IsOnHomePage, int(a.Status), a.ReadingTime,
		a.ModifiedAt, a.IsDeleted, a.IsPublish, a.ID,
	)
	if err != nil {
		return wrapErr("update article", err)
	}
	return nil
}

// IncrementCounter adds delta to the named counter in one statement so
// concurrent increments never lose updates.
func (s *ArticleStore) IncrementCounter(ctx context.Context, id uuid.UUID, c models.ArticleCounter, delta int) (bool, error) {
	if !c.Valid() {
		return false, fmt.Errorf("increment article counter: unknown counter %q", c)
	}
	col := string(c)
	res, err := s.db.ExecContext(ctx,
		`UPDATE articles SET `+col+` = GREATEST(`+col+` + $2, 0) WHERE id = $1`,
		id, delta,
	)
	if err != nil {
		return false, fmt.Errorf("increment article %s: %w", col, err)
	}
	return affected(res)
}

// ReconcileCommentCounts rewrites comment_count wherever it disagrees with
// the number of counted comments.
func (s *ArticleStore) ReconcileCommentCounts(ctx context.Context, counted []models.CommentStatus) (int, error) {
	statuses := make([]string, 0, len(counted))
	for _, st := range counted {
		if st.Valid() {
			statuses = append(statuses, strconv.Itoa(int(st)))
		}
	}
	if len(statuses) == 0 {
		statuses = append(statuses, "-1")
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE articles a SET comment_count = COALESCE(c.cnt, 0)
		FROM articles src
		LEFT JOIN (
			SELECT article_id, COUNT(*) AS cnt
			FROM comments
			WHERE is_deleted = false AND status IN (`+strings.Join(statuses, ", ")+`)
			GROUP BY article_id
		) c ON c.article_id = src.id
		WHERE a.id = src.id AND a.comment_count <> COALESCE(c.cnt, 0)`)
	if err != nil {
		return 0, fmt.Errorf("reconcile comment counts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reconcile comment counts: %w", err)
	}
	return int(n), nil
}
