// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ArticleStatus is the editorial state of an article.
type ArticleStatus int

const (
	ArticleStatusDraft     ArticleStatus = 0
	ArticleStatusInReview  ArticleStatus = 1
	ArticleStatusPublished ArticleStatus = 2
	ArticleStatusRejected  ArticleStatus = 3
)

// Valid reports whether s is one of the known statuses.
func (s ArticleStatus) Valid() bool {
	return s >= ArticleStatusDraft && s <= ArticleStatusRejected
}

func (s ArticleStatus) String() string {
	switch s {
	case ArticleStatusDraft:
		return "draft"
	case ArticleStatusInReview:
		return "in_review"
	case ArticleStatusPublished:
		return "published"
	case ArticleStatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// ArticleCounter names one of the denormalized counters on an article.
type ArticleCounter string

const (
	CounterViews    ArticleCounter = "view_count"
	CounterLikes    ArticleCounter = "like_count"
	CounterShares   ArticleCounter = "share_count"
	CounterComments ArticleCounter = "comment_count"
)

// Valid reports whether c names a known counter column.
func (c ArticleCounter) Valid() bool {
	switch c {
	case CounterViews, CounterLikes, CounterShares, CounterComments:
		return true
	}
	return false
}

// Article is an authored piece of content. It belongs to one category and
// may carry any number of tags through ArticleTag links.
type Article struct {
	Entity

	Title           string        `json:"title"`
	Content         string        `json:"content"`
	Summary         *string       `json:"summary,omitempty"`
	Slug            string        `json:"slug"`
	CoverImageURL   *string       `json:"cover_image_url,omitempty"`
	MetaKeywords    *string       `json:"meta_keywords,omitempty"`
	MetaDescription *string       `json:"meta_description,omitempty"`
	AuthorID        uuid.UUID     `json:"author_id"`
	CategoryID      uuid.UUID     `json:"category_id"`
	PublishedAt     *time.Time    `json:"published_at,omitempty"`
	ViewCount       int           `json:"view_count"`
	LikeCount       int           `json:"like_count"`
	CommentCount    int           `json:"comment_count"`
	ShareCount      int           `json:"share_count"`
	IsFeatured      bool          `json:"is_featured"`
	IsOnHomePage    bool          `json:"is_on_home_page"`
	Status          ArticleStatus `json:"status"`
	ReadingTime     int           `json:"reading_time"`
}

// IsPublished returns true if the article is visible, not deleted, and in
// published status. This is the rule public listings and slug lookups use.
func (a *Article) IsPublished() bool {
	return a.Live() && a.Status == ArticleStatusPublished
}

// SortTime is PublishedAt when set, otherwise CreatedAt.
func (a *Article) SortTime() time.Time {
	if a.PublishedAt != nil {
		return *a.PublishedAt
	}
	return a.CreatedAt
}

// StampPublished sets PublishedAt the first time the article reaches
// published status. An existing timestamp is never moved.
func (a *Article) StampPublished(now time.Time) {
	if a.Status == ArticleStatusPublished && a.PublishedAt == nil {
		t := now
		a.PublishedAt = &t
	}
}

// Counter returns the current value of the named counter.
func (a *Article) Counter(c ArticleCounter) int {
	switch c {
	case CounterViews:
		return a.ViewCount
	case CounterLikes:
		return a.LikeCount
	case CounterShares:
		return a.ShareCount
	case CounterComments:
		return a.CommentCount
	}
	return 0
}

// AddToCounter adds delta to the named counter, flooring the result at zero.
func (a *Article) AddToCounter(c ArticleCounter, delta int) {
	p := a.counterPtr(c)
	if p == nil {
		return
	}
	*p += delta
	if *p < 0 {
		*p = 0
	}
}

func (a *Article) counterPtr(c ArticleCounter) *int {
	switch c {
	case CounterViews:
		return &a.ViewCount
	case CounterLikes:
		return &a.LikeCount
	case CounterShares:
		return &a.ShareCount
	case CounterComments:
		return &a.CommentCount
	}
	return nil
}

// ArticleTag links an article to a tag. The pair is unique.
type ArticleTag struct {
	Entity

	ArticleID uuid.UUID `json:"article_id"`
	TagID     uuid.UUID `json:"tag_id"`
}
