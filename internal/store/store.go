// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access for all inkpress entities. The
// repository interfaces in this file are the persistence contract the
// services depend on; the *Store structs implement them on PostgreSQL.
// An in-memory implementation lives in store/memstore.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"inkpress/internal/models"
	"inkpress/internal/paging"
)

var (
	// ErrDuplicate is returned when a unique constraint (slug, name,
	// article/tag pair) would be violated.
	ErrDuplicate = errors.New("duplicate key")
	// ErrForeignKey is returned when a referenced row does not exist.
	ErrForeignKey = errors.New("foreign key violation")
)

// Logical sort fields understood by every implementation.
const (
	SortTitle     = "title"
	SortCreated   = "createdDate"
	SortPublished = "publishedAt"
	SortViews     = "viewCount"
	SortLikes     = "likeCount"
	// SortRecent orders by PublishedAt, falling back to CreatedAt.
	SortRecent = "recent"
	SortOrder  = "order"
	SortName   = "name"
	SortUsage  = "usageCount"
)

var (
	// ArticleSorter is the allow-list for caller-chosen article ordering.
	ArticleSorter = paging.NewSorter(
		[]paging.Order{{Field: SortCreated, Desc: true}},
		SortTitle, SortCreated, SortPublished, SortViews, SortLikes,
	)
	// RecentFirst orders public article listings.
	RecentFirst = []paging.Order{{Field: SortRecent, Desc: true}}
	// CategoryOrder is the only ordering categories are ever listed in.
	CategoryOrder = []paging.Order{{Field: SortOrder}, {Field: SortName}}
	// TagOrder is the only ordering tags are ever listed in.
	TagOrder = []paging.Order{{Field: SortUsage, Desc: true}, {Field: SortName}}
	// NewestComments and OldestComments order comment listings.
	NewestComments = []paging.Order{{Field: SortCreated, Desc: true}}
	OldestComments = []paging.Order{{Field: SortCreated}}
)

// ArticleFilter narrows article searches. Soft-deleted rows are always
// excluded; nil fields do not filter.
type ArticleFilter struct {
	Term          string
	CategoryID    *uuid.UUID
	AuthorID      *uuid.UUID
	Status        *models.ArticleStatus
	IsFeatured    *bool
	IsOnHomePage  *bool
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	PublishedOnly bool
}

// CategoryFilter narrows category listings.
type CategoryFilter struct {
	Term     string
	ParentID *uuid.UUID
	RootOnly bool
}

// TagFilter narrows tag listings.
type TagFilter struct {
	Term          string
	PublishedOnly bool
}

// CommentFilter narrows comment listings.
type CommentFilter struct {
	ArticleID *uuid.UUID
	UserID    *uuid.UUID
	ParentID  *uuid.UUID
	Status    *models.CommentStatus
}

// ArticleRepository persists articles.
type ArticleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Article, error)
	FindBySlug(ctx context.Context, slug string) (*models.Article, error)
	Search(ctx context.Context, f ArticleFilter, orders []paging.Order, p paging.Request) ([]models.Article, int, error)
	Create(ctx context.Context, a *models.Article) error
	Update(ctx context.Context, a *models.Article) error
	// IncrementCounter adds delta to one counter in a single statement,
	// flooring at zero. It reports whether the article exists.
	IncrementCounter(ctx context.Context, id uuid.UUID, c models.ArticleCounter, delta int) (bool, error)
	// ReconcileCommentCounts recomputes every CommentCount from the
	// non-deleted comments whose status is in counted and returns how many
	// articles changed.
	ReconcileCommentCounts(ctx context.Context, counted []models.CommentStatus) (int, error)
}

// ArticleTagRepository persists article/tag links.
type ArticleTagRepository interface {
	Add(ctx context.Context, links []models.ArticleTag) error
	DeleteByArticle(ctx context.Context, articleID uuid.UUID) (int, error)
	ListByArticle(ctx context.Context, articleID uuid.UUID) ([]models.ArticleTag, error)
	// TagNames returns, per article, the names of its live tags sorted by name.
	TagNames(ctx context.Context, articleIDs []uuid.UUID) (map[uuid.UUID][]string, error)
	CountByTag(ctx context.Context, tagID uuid.UUID) (int, error)
}

// CategoryRepository persists the category hierarchy.
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Category, error)
	List(ctx context.Context, f CategoryFilter, p paging.Request) ([]models.Category, int, error)
	All(ctx context.Context) ([]models.Category, error)
	Children(ctx context.Context, parentID uuid.UUID) ([]models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, c *models.Category) error
	CountChildren(ctx context.Context, id uuid.UUID) (int, error)
	CountArticles(ctx context.Context, id uuid.UUID) (int, error)
}

// TagRepository persists tags.
type TagRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tag, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error)
	FindBySlug(ctx context.Context, slug string) (*models.Tag, error)
	List(ctx context.Context, f TagFilter, p paging.Request) ([]models.Tag, int, error)
	Create(ctx context.Context, t *models.Tag) error
	Update(ctx context.Context, t *models.Tag) error
	IncrementUsage(ctx context.Context, id uuid.UUID, delta int) (bool, error)
}

// CommentRepository persists comments.
type CommentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	List(ctx context.Context, f CommentFilter, orders []paging.Order, p paging.Request) ([]models.Comment, int, error)
	Create(ctx context.Context, c *models.Comment) error
	Update(ctx context.Context, c *models.Comment) error
	IncrementLike(ctx context.Context, id uuid.UUID) (bool, error)
	// CountReplies returns the number of approved, non-deleted replies per parent.
	CountReplies(ctx context.Context, parentIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

// UserRepository reads identity-owned users. The content core never writes them.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
}

// Store groups the repositories and provides the transaction boundary.
// Repositories obtained from the Store passed to fn share one transaction;
// it commits when fn returns nil and rolls back otherwise.
type Store interface {
	Articles() ArticleRepository
	ArticleTags() ArticleTagRepository
	Categories() CategoryRepository
	Tags() TagRepository
	Comments() CommentRepository
	Users() UserRepository
	InTx(ctx context.Context, fn func(tx Store) error) error
}
