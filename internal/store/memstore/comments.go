// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package memstore

import (
	"context"

	"github.com/google/uuid"

	"inkpress/internal/models"
	"inkpress/internal/paging"
	"inkpress/internal/store"
)

var commentCmps = map[string]func(a, b models.Comment) int{
	store.SortCreated: func(a, b models.Comment) int { return a.CreatedAt.Compare(b.CreatedAt) },
}

type commentRepo struct{ s *Store }

func (r commentRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	defer r.s.lock()()
	c, ok := r.s.db.data.comments[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r commentRepo) List(ctx context.Context, f store.CommentFilter, orders []paging.Order, p paging.Request) ([]models.Comment, int, error) {
	defer r.s.lock()()
	var rows []models.Comment
	for _, c := range r.s.db.data.comments {
		if c.IsDeleted {
			continue
		}
		if f.ArticleID != nil && c.ArticleID != *f.ArticleID {
			continue
		}
		if f.UserID != nil && c.UserID != *f.UserID {
			continue
		}
		if f.ParentID != nil && (c.ParentCommentID == nil || *c.ParentCommentID != *f.ParentID) {
			continue
		}
		if f.Status != nil && c.Status != *f.Status {
			continue
		}
		rows = append(rows, c)
	}
	sortRows(rows, orders, commentCmps, func(c models.Comment) uuid.UUID { return c.ID })
	return paging.Window(rows, p), len(rows), nil
}

func (r commentRepo) Create(ctx context.Context, c *models.Comment) error {
	defer r.s.lock()()
	d := &r.s.db.data
	if _, ok := d.comments[c.ID]; ok {
		return dupErr("create comment", "comments_pkey")
	}
	if _, ok := d.articles[c.ArticleID]; !ok {
		return fkErr("create comment", "comments_article_id_fkey")
	}
	if _, ok := d.users[c.UserID]; !ok {
		return fkErr("create comment", "comments_user_id_fkey")
	}
	if c.ParentCommentID != nil {
		if _, ok := d.comments[*c.ParentCommentID]; !ok {
			return fkErr("create comment", "comments_parent_comment_id_fkey")
		}
	}
	d.comments[c.ID] = *c
	return nil
}

func (r commentRepo) Update(ctx context.Context, c *models.Comment) error {
	defer r.s.lock()()
	cur, ok := r.s.db.data.comments[c.ID]
	if !ok {
		return nil
	}
	cur.Content = c.Content
	cur.Status = c.Status
	cur.ModifiedAt = c.ModifiedAt
	cur.IsDeleted = c.IsDeleted
	cur.IsPublish = c.IsPublish
	r.s.db.data.comments[c.ID] = cur
	return nil
}

func (r commentRepo) IncrementLike(ctx context.Context, id uuid.UUID) (bool, error) {
	defer r.s.lock()()
	c, ok := r.s.db.data.comments[id]
	if !ok || c.IsDeleted {
		return false, nil
	}
	c.LikeCount++
	r.s.db.data.comments[id] = c
	return true, nil
}

func (r commentRepo) CountReplies(ctx context.Context, parentIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	defer r.s.lock()()
	want := make(map[uuid.UUID]bool, len(parentIDs))
	for _, id := range parentIDs {
		want[id] = true
	}
	counts := make(map[uuid.UUID]int, len(parentIDs))
	for _, c := range r.s.db.data.comments {
		if c.IsDeleted || c.Status != models.CommentStatusApproved || c.ParentCommentID == nil {
			continue
		}
		if want[*c.ParentCommentID] {
			counts[*c.ParentCommentID]++
		}
	}
	return counts, nil
}

type userRepo struct{ s *Store }

func (r userRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	defer r.s.lock()()
	u, ok := r.s.db.data.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r userRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	defer r.s.lock()()
	var users []models.User
	for _, id := range ids {
		if u, ok := r.s.db.data.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}
