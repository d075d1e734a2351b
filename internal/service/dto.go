// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"time"

	"github.com/google/uuid"

	"inkpress/internal/models"
	"inkpress/internal/paging"
)

// ArticleCriteria selects articles for Search. From and To bound the
// creation date inclusively.
type ArticleCriteria struct {
	paging.Request

	Term       string                `json:"term,omitempty"`
	CategoryID *uuid.UUID            `json:"category_id,omitempty"`
	AuthorID   *uuid.UUID            `json:"author_id,omitempty"`
	Status     *models.ArticleStatus `json:"status,omitempty"`
	IsFeatured *bool                 `json:"is_featured,omitempty"`
	From       *time.Time            `json:"from,omitempty"`
	To         *time.Time            `json:"to,omitempty"`
}

// ArticleRequest is the body of article create and update. On update an
// empty slug keeps the current one and AuthorID is ignored.
type ArticleRequest struct {
	Title           string               `json:"title" validate:"required,max=200"`
	Content         string               `json:"content" validate:"required,max=100000"`
	Summary         *string              `json:"summary,omitempty" validate:"omitempty,max=1000"`
	Slug            string               `json:"slug,omitempty" validate:"omitempty,slug"`
	CoverImageURL   *string              `json:"cover_image_url,omitempty" validate:"omitempty,url"`
	MetaKeywords    *string              `json:"meta_keywords,omitempty" validate:"omitempty,max=500"`
	MetaDescription *string              `json:"meta_description,omitempty" validate:"omitempty,max=500"`
	AuthorID        uuid.UUID            `json:"author_id"`
	CategoryID      uuid.UUID            `json:"category_id" validate:"required"`
	TagIDs          []uuid.UUID          `json:"tag_ids,omitempty"`
	IsFeatured      bool                 `json:"is_featured"`
	IsOnHomePage    bool                 `json:"is_on_home_page"`
	Status          models.ArticleStatus `json:"status" validate:"min=0,max=3"`
	ReadingTime     int                  `json:"reading_time" validate:"min=0"`
	IsPublish       *bool                `json:"is_publish,omitempty"`
}

// ArticleSummary is the list projection of an article.
type ArticleSummary struct {
	ID            uuid.UUID            `json:"id"`
	Title         string               `json:"title"`
	Summary       *string              `json:"summary,omitempty"`
	Slug          string               `json:"slug"`
	CoverImageURL *string              `json:"cover_image_url,omitempty"`
	AuthorID      uuid.UUID            `json:"author_id"`
	AuthorName    string               `json:"author_name"`
	CategoryID    uuid.UUID            `json:"category_id"`
	CategoryName  string               `json:"category_name"`
	PublishedAt   *time.Time           `json:"published_at,omitempty"`
	CreatedDate   time.Time            `json:"created_date"`
	ViewCount     int                  `json:"view_count"`
	LikeCount     int                  `json:"like_count"`
	CommentCount  int                  `json:"comment_count"`
	ShareCount    int                  `json:"share_count"`
	IsFeatured    bool                 `json:"is_featured"`
	IsOnHomePage  bool                 `json:"is_on_home_page"`
	Status        models.ArticleStatus `json:"status"`
	ReadingTime   int                  `json:"reading_time"`
	Tags          []string             `json:"tags"`
}

// ArticleDetail is the full projection of one article.
type ArticleDetail struct {
	ArticleSummary

	Content         string      `json:"content"`
	ContentHTML     string      `json:"content_html"`
	MetaKeywords    *string     `json:"meta_keywords,omitempty"`
	MetaDescription *string     `json:"meta_description,omitempty"`
	TagIDs          []uuid.UUID `json:"tag_ids"`
	ModifiedDate    *time.Time  `json:"modified_date,omitempty"`
	IsDeleted       bool        `json:"is_deleted"`
	IsPublish       bool        `json:"is_publish"`
}

// CategoryCriteria selects categories for List.
type CategoryCriteria struct {
	paging.Request

	Term     string     `json:"term,omitempty"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
	RootOnly bool       `json:"root_only,omitempty"`
}

// CategoryRequest is the body of category create and update. Update
// overwrites every field; an empty slug is regenerated from the name.
type CategoryRequest struct {
	Name             string     `json:"name" validate:"required,max=100"`
	Description      *string    `json:"description,omitempty" validate:"omitempty,max=1000"`
	Slug             string     `json:"slug,omitempty" validate:"omitempty,slug"`
	Icon             *string    `json:"icon,omitempty" validate:"omitempty,max=100"`
	Color            *string    `json:"color,omitempty" validate:"omitempty,hexcolor"`
	ParentCategoryID *uuid.UUID `json:"parent_category_id,omitempty"`
	Order            int        `json:"order" validate:"min=0"`
	IsPublish        *bool      `json:"is_publish,omitempty"`
}

// CategorySummary is the list projection of a category.
type CategorySummary struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Description      *string    `json:"description,omitempty"`
	Slug             string     `json:"slug"`
	Icon             *string    `json:"icon,omitempty"`
	Color            *string    `json:"color,omitempty"`
	ParentCategoryID *uuid.UUID `json:"parent_category_id,omitempty"`
	ParentName       string     `json:"parent_name,omitempty"`
	Order            int        `json:"order"`
	IsPublish        bool       `json:"is_publish"`
}

// CategoryDetail adds the aggregate counts to a category.
type CategoryDetail struct {
	CategorySummary

	SubCategoryCount int        `json:"sub_category_count"`
	ArticleCount     int        `json:"article_count"`
	CreatedDate      time.Time  `json:"created_date"`
	ModifiedDate     *time.Time `json:"modified_date,omitempty"`
	IsDeleted        bool       `json:"is_deleted"`
}

// CategoryNode is one category in the nested tree. Depth is 0 for roots.
type CategoryNode struct {
	CategorySummary

	Depth    int            `json:"depth"`
	Children []CategoryNode `json:"children"`
}

// TagCriteria selects tags for List.
type TagCriteria struct {
	paging.Request

	Term string `json:"term,omitempty"`
}

// TagRequest is the body of tag create and update.
type TagRequest struct {
	Name        string  `json:"name" validate:"required,max=50"`
	Slug        string  `json:"slug,omitempty" validate:"omitempty,slug"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	IsPublish   *bool   `json:"is_publish,omitempty"`
}

// TagSummary is the list projection of a tag.
type TagSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	UsageCount  int       `json:"usage_count"`
	IsPublish   bool      `json:"is_publish"`
}

// TagDetail reports the explicit usage counter next to ArticleCount, the
// number of links from the tag to articles that are not soft-deleted. A link
// to a soft-deleted article stops counting until the article is restored.
// The two numbers are independent.
type TagDetail struct {
	TagSummary

	ArticleCount int        `json:"article_count"`
	CreatedDate  time.Time  `json:"created_date"`
	ModifiedDate *time.Time `json:"modified_date,omitempty"`
	IsDeleted    bool       `json:"is_deleted"`
}

// CommentRequest is the body of comment create. IPAddress and UserAgent
// come from the transport, not the client.
type CommentRequest struct {
	Content         string     `json:"content" validate:"required,max=2000"`
	ArticleID       uuid.UUID  `json:"article_id" validate:"required"`
	ParentCommentID *uuid.UUID `json:"parent_comment_id,omitempty"`
	IPAddress       string     `json:"-" validate:"omitempty,ip"`
	UserAgent       string     `json:"-" validate:"max=500"`
}

// CommentUpdateRequest overwrites content and status.
type CommentUpdateRequest struct {
	Content string               `json:"content" validate:"required,max=2000"`
	Status  models.CommentStatus `json:"status" validate:"min=0,max=2"`
}

// CommentCriteria selects comments for List.
type CommentCriteria struct {
	paging.Request

	ArticleID *uuid.UUID            `json:"article_id,omitempty"`
	UserID    *uuid.UUID            `json:"user_id,omitempty"`
	Status    *models.CommentStatus `json:"status,omitempty"`
}

// CommentSummary is the projection of one comment. Replies are counted,
// not nested.
type CommentSummary struct {
	ID              uuid.UUID            `json:"id"`
	Content         string               `json:"content"`
	ArticleID       uuid.UUID            `json:"article_id"`
	ArticleTitle    string               `json:"article_title"`
	UserID          uuid.UUID            `json:"user_id"`
	UserName        string               `json:"user_name"`
	ParentCommentID *uuid.UUID           `json:"parent_comment_id,omitempty"`
	LikeCount       int                  `json:"like_count"`
	Status          models.CommentStatus `json:"status"`
	ReplyCount      int                  `json:"reply_count"`
	CreatedDate     time.Time            `json:"created_date"`
	ModifiedDate    *time.Time           `json:"modified_date,omitempty"`
}
