// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"github.com/google/uuid"
)

// CommentStatus is the moderation state of a comment.
type CommentStatus int

const (
	CommentStatusPending  CommentStatus = 0
	CommentStatusApproved CommentStatus = 1
	CommentStatusRejected CommentStatus = 2
)

// Valid reports whether s is one of the known moderation states.
func (s CommentStatus) Valid() bool {
	return s >= CommentStatusPending && s <= CommentStatusRejected
}

func (s CommentStatus) String() string {
	switch s {
	case CommentStatusPending:
		return "pending"
	case CommentStatusApproved:
		return "approved"
	case CommentStatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// CanTransitionTo reports whether moderation may move a comment from s to
// next. Staying in the same state is allowed; going back to pending is not.
func (s CommentStatus) CanTransitionTo(next CommentStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	switch s {
	case CommentStatusPending:
		return next == CommentStatusApproved || next == CommentStatusRejected
	case CommentStatusApproved:
		return next == CommentStatusRejected
	case CommentStatusRejected:
		return next == CommentStatusApproved
	}
	return false
}

// Comment is a reader's remark on an article. Replies point at their parent
// through ParentCommentID.
type Comment struct {
	Entity

	Content         string        `json:"content"`
	ArticleID       uuid.UUID     `json:"article_id"`
	UserID          uuid.UUID     `json:"user_id"`
	ParentCommentID *uuid.UUID    `json:"parent_comment_id,omitempty"`
	LikeCount       int           `json:"like_count"`
	Status          CommentStatus `json:"status"`
	IPAddress       string        `json:"ip_address"`
	UserAgent       string        `json:"user_agent"`
}

// IsReply reports whether the comment answers another comment.
func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil
}
