// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"inkpress/internal/database"
	"inkpress/internal/models"
	"inkpress/internal/paging"
)

// testDSN returns the PostgreSQL connection string for testing.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkpress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkpress")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// fixture is one author and one category, removed with everything that
// references them when the test ends.
type fixture struct {
	store    *SQLStore
	author   *models.User
	category *models.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testDB(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	author := &models.User{Entity: models.NewEntity(now), Email: uuid.NewString() + "@test.local", FirstName: "Test", LastName: "Author", IsActive: true}
	if err := NewUserStore(db).Create(ctx, author); err != nil {
		t.Fatalf("create author: %v", err)
	}
	cat := &models.Category{Entity: models.NewEntity(now), Name: "Cat " + author.ID.String()[:8], Slug: "cat-" + author.ID.String()}
	if err := NewCategoryStore(db).Create(ctx, cat); err != nil {
		t.Fatalf("create category: %v", err)
	}

	t.Cleanup(func() {
		db.Exec("DELETE FROM comments WHERE user_id = $1", author.ID)
		db.Exec("DELETE FROM articles WHERE author_id = $1", author.ID)
		db.Exec("DELETE FROM categories WHERE parent_category_id = $1", cat.ID)
		db.Exec("DELETE FROM categories WHERE id = $1", cat.ID)
		db.Exec("DELETE FROM users WHERE id = $1", author.ID)
	})
	return &fixture{store: New(db), author: author, category: cat}
}

func (f *fixture) article(t *testing.T, title string, status models.ArticleStatus) *models.Article {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	a := &models.Article{
		Entity:     models.NewEntity(now),
		Title:      title,
		Content:    "body of " + title,
		Slug:       "a-" + uuid.NewString(),
		AuthorID:   f.author.ID,
		CategoryID: f.category.ID,
		Status:     status,
	}
	a.StampPublished(now)
	if err := f.store.Articles().Create(context.Background(), a); err != nil {
		t.Fatalf("create article: %v", err)
	}
	return a
}

func TestArticleCreateAndFind(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.article(t, "Hello", models.ArticleStatusPublished)

	got, err := f.store.Articles().FindByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got == nil || got.Title != "Hello" || got.PublishedAt == nil {
		t.Fatalf("FindByID: got %+v", got)
	}

	bySlug, err := f.store.Articles().FindBySlug(ctx, a.Slug)
	if err != nil || bySlug == nil || bySlug.ID != a.ID {
		t.Fatalf("FindBySlug: got %+v, %v", bySlug, err)
	}

	missing, err := f.store.Articles().FindByID(ctx, uuid.New())
	if err != nil || missing != nil {
		t.Errorf("FindByID(missing): got %+v, %v", missing, err)
	}
}

func TestArticleDuplicateSlug(t *testing.T) {
	f := newFixture(t)
	a := f.article(t, "First", models.ArticleStatusDraft)

	dup := *a
	dup.ID = uuid.New()
	err := f.store.Articles().Create(context.Background(), &dup)
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestArticleSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.article(t, "Go generics", models.ArticleStatusPublished)
	f.article(t, "Go channels", models.ArticleStatusDraft)
	f.article(t, "Rust traits", models.ArticleStatusPublished)

	filter := ArticleFilter{Term: "go", AuthorID: &f.author.ID}
	items, total, err := f.store.Articles().Search(ctx, filter, []paging.Order{{Field: SortTitle}}, paging.First(10))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("Search: got %d items, total %d", len(items), total)
	}
	if items[0].Title != "Go channels" {
		t.Errorf("first by title: got %q", items[0].Title)
	}

	filter.PublishedOnly = true
	_, total, err = f.store.Articles().Search(ctx, filter, RecentFirst, paging.First(10))
	if err != nil {
		t.Fatalf("Search published: %v", err)
	}
	if total != 1 {
		t.Errorf("published total: got %d, want 1", total)
	}
}

func TestArticleIncrementCounter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.article(t, "Counted", models.ArticleStatusPublished)

	ok, err := f.store.Articles().IncrementCounter(ctx, a.ID, models.CounterViews, 3)
	if err != nil || !ok {
		t.Fatalf("IncrementCounter: %v, %v", ok, err)
	}
	if _, err := f.store.Articles().IncrementCounter(ctx, a.ID, models.CounterViews, -10); err != nil {
		t.Fatalf("IncrementCounter negative: %v", err)
	}

	got, _ := f.store.Articles().FindByID(ctx, a.ID)
	if got.ViewCount != 0 {
		t.Errorf("view count floor: got %d, want 0", got.ViewCount)
	}

	ok, err = f.store.Articles().IncrementCounter(ctx, uuid.New(), models.CounterLikes, 1)
	if err != nil || ok {
		t.Errorf("IncrementCounter(missing): got %v, %v", ok, err)
	}

	if _, err := f.store.Articles().IncrementCounter(ctx, a.ID, models.ArticleCounter("title"), 1); err == nil {
		t.Error("expected error for unknown counter")
	}
}

func TestInTxRollback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.article(t, "Rolled", models.ArticleStatusDraft)

	boom := errors.New("boom")
	err := f.store.InTx(ctx, func(tx Store) error {
		if _, err := tx.Articles().IncrementCounter(ctx, a.ID, models.CounterLikes, 5); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("InTx: got %v", err)
	}

	got, _ := f.store.Articles().FindByID(ctx, a.ID)
	if got.LikeCount != 0 {
		t.Errorf("like count after rollback: got %d, want 0", got.LikeCount)
	}
}

func TestArticleTags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.article(t, "Tagged", models.ArticleStatusPublished)
	now := time.Now().UTC()

	var tags []*models.Tag
	for _, name := range []string{"zeta", "alpha"} {
		tg := &models.Tag{Entity: models.NewEntity(now), Name: name + "-" + a.ID.String()[:8], Slug: name + "-" + a.ID.String()}
		if err := f.store.Tags().Create(ctx, tg); err != nil {
			t.Fatalf("create tag: %v", err)
		}
		tags = append(tags, tg)
	}
	t.Cleanup(func() {
		for _, tg := range tags {
			f.store.db.Exec("DELETE FROM tags WHERE id = $1", tg.ID)
		}
	})

	links := []models.ArticleTag{
		{Entity: models.NewEntity(now), ArticleID: a.ID, TagID: tags[0].ID},
		{Entity: models.NewEntity(now), ArticleID: a.ID, TagID: tags[1].ID},
	}
	if err := f.store.ArticleTags().Add(ctx, links); err != nil {
		t.Fatalf("Add: %v", err)
	}

	again := []models.ArticleTag{{Entity: models.NewEntity(now), ArticleID: a.ID, TagID: tags[0].ID}}
	if err := f.store.ArticleTags().Add(ctx, again); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate pair: got %v", err)
	}

	names, err := f.store.ArticleTags().TagNames(ctx, []uuid.UUID{a.ID})
	if err != nil {
		t.Fatalf("TagNames: %v", err)
	}
	if len(names[a.ID]) != 2 || names[a.ID][0] != tags[1].Name {
		t.Errorf("TagNames: got %v", names[a.ID])
	}

	n, err := f.store.ArticleTags().DeleteByArticle(ctx, a.ID)
	if err != nil || n != 2 {
		t.Errorf("DeleteByArticle: got %d, %v", n, err)
	}
}

func TestCategoryChildren(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i, name := range []string{"b", "a"} {
		child := &models.Category{
			Entity:           models.NewEntity(now),
			Name:             name + "-" + f.category.ID.String()[:8],
			Slug:             name + "-" + f.category.ID.String(),
			ParentCategoryID: &f.category.ID,
			Order:            i,
		}
		if err := f.store.Categories().Create(ctx, child); err != nil {
			t.Fatalf("create child: %v", err)
		}
	}

	children, err := f.store.Categories().Children(ctx, f.category.ID)
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if len(children) != 2 || children[0].Order != 0 {
		t.Fatalf("Children: got %+v", children)
	}

	n, err := f.store.Categories().CountChildren(ctx, f.category.ID)
	if err != nil || n != 2 {
		t.Errorf("CountChildren: got %d, %v", n, err)
	}
}

func TestCommentsAndReconcile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.article(t, "Discussed", models.ArticleStatusPublished)
	now := time.Now().UTC()

	root := &models.Comment{Entity: models.NewEntity(now), Content: "root", ArticleID: a.ID, UserID: f.author.ID, Status: models.CommentStatusApproved}
	if err := f.store.Comments().Create(ctx, root); err != nil {
		t.Fatalf("create comment: %v", err)
	}
	for _, st := range []models.CommentStatus{models.CommentStatusApproved, models.CommentStatusPending, models.CommentStatusRejected} {
		reply := &models.Comment{Entity: models.NewEntity(now), Content: "reply", ArticleID: a.ID, UserID: f.author.ID, ParentCommentID: &root.ID, Status: st}
		if err := f.store.Comments().Create(ctx, reply); err != nil {
			t.Fatalf("create reply: %v", err)
		}
	}

	replies, err := f.store.Comments().CountReplies(ctx, []uuid.UUID{root.ID})
	if err != nil {
		t.Fatalf("CountReplies: %v", err)
	}
	if replies[root.ID] != 1 {
		t.Errorf("approved replies: got %d, want 1", replies[root.ID])
	}

	items, total, err := f.store.Comments().List(ctx, CommentFilter{ArticleID: &a.ID}, OldestComments, paging.First(10))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 4 || len(items) != 4 {
		t.Errorf("List: got %d items, total %d", len(items), total)
	}

	counted := []models.CommentStatus{models.CommentStatusPending, models.CommentStatusApproved}
	if _, err := f.store.Articles().ReconcileCommentCounts(ctx, counted); err != nil {
		t.Fatalf("ReconcileCommentCounts: %v", err)
	}
	got, _ := f.store.Articles().FindByID(ctx, a.ID)
	if got.CommentCount != 3 {
		t.Errorf("reconciled count: got %d, want 3", got.CommentCount)
	}
}
