// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"inkpress/internal/models"
	"inkpress/internal/paging"
	"inkpress/internal/slug"
	"inkpress/internal/store"
)

// TagService manages tags. Listings are ordered by (UsageCount desc, Name).
type TagService struct {
	store store.Store
	opts  options
}

// NewTagService creates a TagService over s.
func NewTagService(s store.Store, opts ...Option) *TagService {
	return &TagService{store: s, opts: buildOptions("tags", opts)}
}

// List returns one page of non-deleted tags.
func (s *TagService) List(ctx context.Context, c TagCriteria) (paging.Page[TagSummary], error) {
	p := c.Request.Normalize()
	rows, total, err := s.store.Tags().List(ctx, store.TagFilter{Term: c.Term}, p)
	if err != nil {
		s.opts.log.Error("list tags failed", "error", err)
		return paging.Page[TagSummary]{}, fmt.Errorf("list tags: %w", err)
	}
	return paging.New(tagSummaries(rows), total, p), nil
}

// GetAll returns every non-deleted tag.
func (s *TagService) GetAll(ctx context.Context) ([]TagSummary, error) {
	var all []models.Tag
	for page := 1; ; page++ {
		rows, total, err := s.store.Tags().List(ctx, store.TagFilter{}, paging.Request{Page: page, PageSize: paging.MaxPageSize})
		if err != nil {
			s.opts.log.Error("list all tags failed", "error", err)
			return nil, fmt.Errorf("list all tags: %w", err)
		}
		all = append(all, rows...)
		if len(rows) == 0 || len(all) >= total {
			break
		}
	}
	return tagSummaries(all), nil
}

// GetPopular returns up to count published tags, most used first.
func (s *TagService) GetPopular(ctx context.Context, count int) ([]TagSummary, error) {
	if count < 1 {
		return []TagSummary{}, nil
	}
	rows, _, err := s.store.Tags().List(ctx, store.TagFilter{PublishedOnly: true}, paging.First(count))
	if err != nil {
		s.opts.log.Error("list popular tags failed", "error", err)
		return nil, fmt.Errorf("list popular tags: %w", err)
	}
	return tagSummaries(rows), nil
}

func tagSummaries(rows []models.Tag) []TagSummary {
	out := make([]TagSummary, len(rows))
	for i := range rows {
		out[i] = toTagSummary(&rows[i])
	}
	return out
}

// GetByID returns a tag, deleted or not.
func (s *TagService) GetByID(ctx context.Context, id uuid.UUID) (*TagDetail, error) {
	t, err := s.store.Tags().FindByID(ctx, id)
	if err != nil {
		s.opts.log.Error("get tag failed", "id", id, "error", err)
		return nil, fmt.Errorf("get tag: %w", err)
	}
	if t == nil {
		return nil, ErrNotFound
	}
	return s.detail(ctx, t)
}

// GetBySlug returns a non-deleted tag.
func (s *TagService) GetBySlug(ctx context.Context, tagSlug string) (*TagDetail, error) {
	t, err := s.store.Tags().FindBySlug(ctx, tagSlug)
	if err != nil {
		s.opts.log.Error("get tag by slug failed", "slug", tagSlug, "error", err)
		return nil, fmt.Errorf("get tag by slug: %w", err)
	}
	if t == nil || t.IsDeleted {
		return nil, ErrNotFound
	}
	return s.detail(ctx, t)
}

func (s *TagService) detail(ctx context.Context, t *models.Tag) (*TagDetail, error) {
	n, err := s.store.ArticleTags().CountByTag(ctx, t.ID)
	if err != nil {
		s.opts.log.Error("count tag articles failed", "id", t.ID, "error", err)
		return nil, fmt.Errorf("count tag articles: %w", err)
	}
	d := toTagDetail(t, n)
	return &d, nil
}

// Create adds a tag. Name and slug must both be unused.
func (s *TagService) Create(ctx context.Context, req TagRequest) (*TagDetail, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	t := &models.Tag{Entity: models.NewEntity(s.opts.now())}
	t.IsPublish = visibility(req.IsPublish)
	applyTag(t, req)

	if err := s.store.Tags().Create(ctx, t); err != nil {
		return nil, writeErr("create tag", err)
	}

	s.opts.log.Info("tag created", "id", t.ID, "slug", t.Slug)
	return s.reload(ctx, t.ID)
}

// Update overwrites name, slug, description and visibility. UsageCount is
// untouched.
func (s *TagService) Update(ctx context.Context, id uuid.UUID, req TagRequest) (*TagDetail, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	err := s.store.InTx(ctx, func(tx store.Store) error {
		t, err := tx.Tags().FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("find tag: %w", err)
		}
		if t == nil {
			return ErrNotFound
		}
		applyTag(t, req)
		if req.IsPublish != nil {
			t.IsPublish = *req.IsPublish
		}
		t.Touch(s.opts.now())
		if err := tx.Tags().Update(ctx, t); err != nil {
			return writeErr("update tag", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.opts.clearCache(ctx)
	s.opts.log.Info("tag updated", "id", id)
	return s.reload(ctx, id)
}

func applyTag(t *models.Tag, req TagRequest) {
	t.Name = req.Name
	t.Description = req.Description
	t.Slug = req.Slug
	if t.Slug == "" {
		t.Slug = slug.Generate(req.Name)
	}
	if t.Slug == "" {
		t.Slug = "tag-" + t.ID.String()[:8]
	}
}

func (s *TagService) reload(ctx context.Context, id uuid.UUID) (*TagDetail, error) {
	t, err := s.store.Tags().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload tag: %w", err)
	}
	if t == nil {
		panic(&InvariantError{Entity: "tag", ID: id})
	}
	return s.detail(ctx, t)
}

// SoftDelete hides a tag from every listing. Existing links stay.
func (s *TagService) SoftDelete(ctx context.Context, id uuid.UUID) Outcome {
	now := s.opts.now()
	return s.mutate(ctx, "soft delete tag", id, func(t *models.Tag) { t.SoftDelete(now) })
}

// Restore undoes SoftDelete.
func (s *TagService) Restore(ctx context.Context, id uuid.UUID) Outcome {
	now := s.opts.now()
	return s.mutate(ctx, "restore tag", id, func(t *models.Tag) { t.Restore(now) })
}

func (s *TagService) mutate(ctx context.Context, op string, id uuid.UUID, fn func(t *models.Tag)) Outcome {
	err := s.store.InTx(ctx, func(tx store.Store) error {
		t, err := tx.Tags().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return ErrNotFound
		}
		fn(t)
		return tx.Tags().Update(ctx, t)
	})
	if err == nil {
		s.opts.clearCache(ctx)
	}
	return outcomeOf(s.opts.log, op, id, err)
}

// IncrementUsageCount adds one to the tag's explicit usage counter.
func (s *TagService) IncrementUsageCount(ctx context.Context, id uuid.UUID) Outcome {
	found, err := s.store.Tags().IncrementUsage(ctx, id, 1)
	if err == nil && !found {
		err = ErrNotFound
	}
	return outcomeOf(s.opts.log, "increment tag usage", id, err)
}
