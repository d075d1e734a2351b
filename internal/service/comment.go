// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"inkpress/internal/models"
	"inkpress/internal/paging"
	"inkpress/internal/sanitize"
	"inkpress/internal/store"
)

// CommentService manages threaded comments and their moderation, keeping
// each article's CommentCount in step with the active CountPolicy.
type CommentService struct {
	store    store.Store
	articles *ArticleService
	opts     options
}

// NewCommentService creates a CommentService. Counter changes go through
// articles inside the comment's own transaction.
func NewCommentService(s store.Store, articles *ArticleService, opts ...Option) *CommentService {
	return &CommentService{store: s, articles: articles, opts: buildOptions("comments", opts)}
}

// Create posts a pending comment by userID.
func (s *CommentService) Create(ctx context.Context, req CommentRequest, userID uuid.UUID) (*CommentSummary, error) {
	req.Content = sanitize.Text(req.Content)
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	c := &models.Comment{
		Entity:          models.NewEntity(s.opts.now()),
		Content:         req.Content,
		ArticleID:       req.ArticleID,
		UserID:          userID,
		ParentCommentID: req.ParentCommentID,
		Status:          models.CommentStatusPending,
		IPAddress:       req.IPAddress,
		UserAgent:       req.UserAgent,
	}

	err := s.store.InTx(ctx, func(tx store.Store) error {
		article, err := tx.Articles().FindByID(ctx, req.ArticleID)
		if err != nil {
			return fmt.Errorf("find article: %w", err)
		}
		if article == nil || article.IsDeleted {
			return invalid("article_id", "article %s does not exist", req.ArticleID)
		}

		user, err := tx.Users().FindByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		if user == nil || user.IsDeleted || !user.IsActive {
			return invalid("user_id", "user %s cannot comment", userID)
		}

		if req.ParentCommentID != nil {
			parent, err := tx.Comments().FindByID(ctx, *req.ParentCommentID)
			if err != nil {
				return fmt.Errorf("find parent comment: %w", err)
			}
			if parent == nil || parent.IsDeleted {
				return invalid("parent_comment_id", "parent comment %s does not exist", *req.ParentCommentID)
			}
			if parent.ArticleID != req.ArticleID {
				return invalid("parent_comment_id", "parent comment belongs to another article")
			}
		}

		if err := tx.Comments().Create(ctx, c); err != nil {
			return writeErr("create comment", err)
		}
		return s.articles.adjustCommentCount(ctx, tx, c.ArticleID, b2i(s.opts.policy.Counts(c.Status)))
	})
	if err != nil {
		return nil, err
	}

	s.opts.log.Info("comment created", "id", c.ID, "article_id", c.ArticleID, "user_id", userID)
	return s.reload(ctx, c.ID)
}

// GetByID returns a comment, deleted or not.
func (s *CommentService) GetByID(ctx context.Context, id uuid.UUID) (*CommentSummary, error) {
	c, err := s.store.Comments().FindByID(ctx, id)
	if err != nil {
		s.opts.log.Error("get comment failed", "id", id, "error", err)
		return nil, fmt.Errorf("get comment: %w", err)
	}
	if c == nil {
		return nil, ErrNotFound
	}
	items, err := s.summaries(ctx, []models.Comment{*c})
	if err != nil {
		s.opts.log.Error("get comment failed", "id", id, "error", err)
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &items[0], nil
}

// Update overwrites content and status. The status change must be a legal
// transition; the article counter is not adjusted here, the reconcile job
// repairs it.
func (s *CommentService) Update(ctx context.Context, id uuid.UUID, req CommentUpdateRequest) (*CommentSummary, error) {
	req.Content = sanitize.Text(req.Content)
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	err := s.store.InTx(ctx, func(tx store.Store) error {
		c, err := tx.Comments().FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("find comment: %w", err)
		}
		if c == nil {
			return ErrNotFound
		}
		if !c.Status.CanTransitionTo(req.Status) {
			return fmt.Errorf("comment %s from %s to %s: %w", id, c.Status, req.Status, ErrInvalidTransition)
		}
		c.Content = req.Content
		c.Status = req.Status
		c.Touch(s.opts.now())
		return tx.Comments().Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, id)
}

// UpdateStatus moves a comment through the moderation workflow and adjusts
// the article's CommentCount by the policy delta.
func (s *CommentService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.CommentStatus) (*CommentSummary, error) {
	if !status.Valid() {
		return nil, invalid("status", "unknown comment status %d", int(status))
	}

	err := s.store.InTx(ctx, func(tx store.Store) error {
		c, err := tx.Comments().FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("find comment: %w", err)
		}
		if c == nil {
			return ErrNotFound
		}
		if !c.Status.CanTransitionTo(status) {
			return fmt.Errorf("comment %s from %s to %s: %w", id, c.Status, status, ErrInvalidTransition)
		}
		if c.Status == status {
			return nil
		}

		delta := 0
		if !c.IsDeleted {
			delta = s.opts.policy.Delta(c.Status, status)
		}
		c.Status = status
		c.Touch(s.opts.now())
		if err := tx.Comments().Update(ctx, c); err != nil {
			return fmt.Errorf("update comment: %w", err)
		}
		return s.articles.adjustCommentCount(ctx, tx, c.ArticleID, delta)
	})
	if err != nil {
		return nil, err
	}

	s.opts.log.Info("comment moderated", "id", id, "status", status.String())
	return s.reload(ctx, id)
}

// SoftDelete hides a comment. A counted comment stops counting.
func (s *CommentService) SoftDelete(ctx context.Context, id uuid.UUID) Outcome {
	now := s.opts.now()
	return s.mutate(ctx, "soft delete comment", id, func(c *models.Comment) int {
		if c.IsDeleted {
			return 0
		}
		c.SoftDelete(now)
		return -b2i(s.opts.policy.Counts(c.Status))
	})
}

// Restore undoes SoftDelete. A counted comment counts again.
func (s *CommentService) Restore(ctx context.Context, id uuid.UUID) Outcome {
	now := s.opts.now()
	return s.mutate(ctx, "restore comment", id, func(c *models.Comment) int {
		wasDeleted := c.IsDeleted
		c.Restore(now)
		if !wasDeleted {
			return 0
		}
		return b2i(s.opts.policy.Counts(c.Status))
	})
}

// mutate applies fn to a comment and moves the article counter by the
// delta fn returns, all in one transaction.
func (s *CommentService) mutate(ctx context.Context, op string, id uuid.UUID, fn func(c *models.Comment) int) Outcome {
	err := s.store.InTx(ctx, func(tx store.Store) error {
		c, err := tx.Comments().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return ErrNotFound
		}
		delta := fn(c)
		if err := tx.Comments().Update(ctx, c); err != nil {
			return err
		}
		return s.articles.adjustCommentCount(ctx, tx, c.ArticleID, delta)
	})
	return outcomeOf(s.opts.log, op, id, err)
}

// IncrementLike adds one like to a non-deleted comment.
func (s *CommentService) IncrementLike(ctx context.Context, id uuid.UUID) Outcome {
	found, err := s.store.Comments().IncrementLike(ctx, id)
	if err == nil && !found {
		err = ErrNotFound
	}
	return outcomeOf(s.opts.log, "increment comment like", id, err)
}

// GetByArticle returns approved comments of one article, newest first.
func (s *CommentService) GetByArticle(ctx context.Context, articleID uuid.UUID, page, pageSize int) (paging.Page[CommentSummary], error) {
	approved := models.CommentStatusApproved
	p := paging.Request{Page: page, PageSize: pageSize}.Normalize()
	return s.page(ctx, "list article comments", store.CommentFilter{ArticleID: &articleID, Status: &approved}, store.NewestComments, p)
}

// GetReplies returns the approved direct replies to a comment, oldest first.
func (s *CommentService) GetReplies(ctx context.Context, parentID uuid.UUID) ([]CommentSummary, error) {
	approved := models.CommentStatusApproved
	page, err := s.page(ctx, "list comment replies", store.CommentFilter{ParentID: &parentID, Status: &approved}, store.OldestComments, paging.First(paging.MaxPageSize))
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// GetRecent returns up to count approved comments, newest first.
func (s *CommentService) GetRecent(ctx context.Context, count int) ([]CommentSummary, error) {
	return s.latest(ctx, "list recent comments", models.CommentStatusApproved, count)
}

// GetPending returns up to count comments awaiting moderation, newest first.
func (s *CommentService) GetPending(ctx context.Context, count int) ([]CommentSummary, error) {
	return s.latest(ctx, "list pending comments", models.CommentStatusPending, count)
}

func (s *CommentService) latest(ctx context.Context, op string, status models.CommentStatus, count int) ([]CommentSummary, error) {
	if count < 1 {
		return []CommentSummary{}, nil
	}
	page, err := s.page(ctx, op, store.CommentFilter{Status: &status}, store.NewestComments, paging.First(count))
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// List returns one page of non-deleted comments matching c, newest first.
func (s *CommentService) List(ctx context.Context, c CommentCriteria) (paging.Page[CommentSummary], error) {
	p := c.Request.Normalize()
	filter := store.CommentFilter{ArticleID: c.ArticleID, UserID: c.UserID, Status: c.Status}
	return s.page(ctx, "list comments", filter, store.NewestComments, p)
}

func (s *CommentService) page(ctx context.Context, op string, f store.CommentFilter, orders []paging.Order, p paging.Request) (paging.Page[CommentSummary], error) {
	rows, total, err := s.store.Comments().List(ctx, f, orders, p)
	if err != nil {
		s.opts.log.Error(op+" failed", "error", err)
		return paging.Page[CommentSummary]{}, fmt.Errorf("%s: %w", op, err)
	}
	items, err := s.summaries(ctx, rows)
	if err != nil {
		s.opts.log.Error(op+" failed", "error", err)
		return paging.Page[CommentSummary]{}, fmt.Errorf("%s: %w", op, err)
	}
	return paging.New(items, total, p), nil
}

// summaries resolves user names, article titles and reply counts for a
// batch of comments.
func (s *CommentService) summaries(ctx context.Context, rows []models.Comment) ([]CommentSummary, error) {
	var userIDs, articleIDs, ids []uuid.UUID
	for _, c := range rows {
		userIDs = append(userIDs, c.UserID)
		articleIDs = append(articleIDs, c.ArticleID)
		ids = append(ids, c.ID)
	}

	users, err := s.store.Users().FindByIDs(ctx, uniqueIDs(userIDs))
	if err != nil {
		return nil, fmt.Errorf("resolve users: %w", err)
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.FullName()
	}

	articles, err := s.store.Articles().FindByIDs(ctx, uniqueIDs(articleIDs))
	if err != nil {
		return nil, fmt.Errorf("resolve articles: %w", err)
	}
	titles := make(map[uuid.UUID]string, len(articles))
	for _, a := range articles {
		titles[a.ID] = a.Title
	}

	replies, err := s.store.Comments().CountReplies(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count replies: %w", err)
	}

	out := make([]CommentSummary, len(rows))
	for i := range rows {
		c := &rows[i]
		out[i] = toCommentSummary(c, names[c.UserID], titles[c.ArticleID], replies[c.ID])
	}
	return out, nil
}

func (s *CommentService) reload(ctx context.Context, id uuid.UUID) (*CommentSummary, error) {
	c, err := s.store.Comments().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload comment: %w", err)
	}
	if c == nil {
		panic(&InvariantError{Entity: "comment", ID: id})
	}
	items, err := s.summaries(ctx, []models.Comment{*c})
	if err != nil {
		return nil, fmt.Errorf("reload comment: %w", err)
	}
	return &items[0], nil
}

// ReconcileCommentCounts recomputes every article's CommentCount from its
// live comments under the active policy and returns how many changed.
func (s *CommentService) ReconcileCommentCounts(ctx context.Context) (int, error) {
	n, err := s.store.Articles().ReconcileCommentCounts(ctx, s.opts.policy.Counted())
	if err != nil {
		s.opts.log.Error("reconcile comment counts failed", "error", err)
		return 0, fmt.Errorf("reconcile comment counts: %w", err)
	}
	if n > 0 {
		s.opts.log.Info("comment counts reconciled", "articles", n, "policy", s.opts.policy.String())
	}
	return n, nil
}
