// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package memstore is an in-memory store.Store. It enforces the same
// uniqueness and reference rules as the PostgreSQL schema and is used by
// tests and by the "memory" store driver.
package memstore

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"inkpress/internal/models"
	"inkpress/internal/paging"
	"inkpress/internal/store"
)

type tables struct {
	articles    map[uuid.UUID]models.Article
	articleTags map[uuid.UUID]models.ArticleTag
	categories  map[uuid.UUID]models.Category
	tags        map[uuid.UUID]models.Tag
	comments    map[uuid.UUID]models.Comment
	users       map[uuid.UUID]models.User
}

func newTables() tables {
	return tables{
		articles:    make(map[uuid.UUID]models.Article),
		articleTags: make(map[uuid.UUID]models.ArticleTag),
		categories:  make(map[uuid.UUID]models.Category),
		tags:        make(map[uuid.UUID]models.Tag),
		comments:    make(map[uuid.UUID]models.Comment),
		users:       make(map[uuid.UUID]models.User),
	}
}

func (t tables) clone() tables {
	return tables{
		articles:    maps.Clone(t.articles),
		articleTags: maps.Clone(t.articleTags),
		categories:  maps.Clone(t.categories),
		tags:        maps.Clone(t.tags),
		comments:    maps.Clone(t.comments),
		users:       maps.Clone(t.users),
	}
}

type database struct {
	mu   sync.Mutex
	data tables
}

// Store is the in-memory store.Store. Every operation, and every
// transaction as a whole, runs under one lock.
type Store struct {
	db   *database
	inTx bool
}

// New returns an empty Store.
func New() *Store {
	return &Store{db: &database{data: newTables()}}
}

var _ store.Store = (*Store)(nil)

// lock acquires the database lock unless the store is bound to a
// transaction, which already holds it.
func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.db.mu.Lock()
	return s.db.mu.Unlock
}

func (s *Store) Articles() store.ArticleRepository       { return articleRepo{s} }
func (s *Store) ArticleTags() store.ArticleTagRepository { return articleTagRepo{s} }
func (s *Store) Categories() store.CategoryRepository    { return categoryRepo{s} }
func (s *Store) Tags() store.TagRepository               { return tagRepo{s} }
func (s *Store) Comments() store.CommentRepository       { return commentRepo{s} }
func (s *Store) Users() store.UserRepository             { return userRepo{s} }

// InTx runs fn with exclusive access. If fn returns an error or panics,
// every write made through tx is discarded.
func (s *Store) InTx(ctx context.Context, fn func(tx store.Store) error) (err error) {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	snapshot := s.db.data.clone()
	committed := false
	defer func() {
		if !committed {
			s.db.data = snapshot
		}
	}()

	if err := fn(&Store{db: s.db, inTx: true}); err != nil {
		return err
	}
	committed = true
	return nil
}

// PutUser inserts or replaces a user. Users are owned by the identity
// service, so the repository contract has no write path for them.
func (s *Store) PutUser(u models.User) {
	defer s.lock()()
	s.db.data.users[u.ID] = u
}

// containsFold reports whether substr occurs in any of fields, ignoring case.
func containsFold(substr string, fields ...string) bool {
	needle := strings.ToLower(substr)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func compareID(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}

// compareTimePtr sorts nil after every time, as PostgreSQL sorts NULL.
func compareTimePtr(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return a.Compare(*b)
}

// sortRows orders rows by orders, resolving each field through cmps, with
// id as the final tie-break. Unknown fields are ignored.
func sortRows[T any](rows []T, orders []paging.Order, cmps map[string]func(a, b T) int, id func(T) uuid.UUID) {
	slices.SortStableFunc(rows, func(a, b T) int {
		for _, o := range orders {
			fn, ok := cmps[o.Field]
			if !ok {
				continue
			}
			c := fn(a, b)
			if o.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return compareID(id(a), id(b))
	})
}

func fkErr(op, what string) error {
	return fmt.Errorf("%s: %w (%s)", op, store.ErrForeignKey, what)
}

func dupErr(op, what string) error {
	return fmt.Errorf("%s: %w (%s)", op, store.ErrDuplicate, what)
}
