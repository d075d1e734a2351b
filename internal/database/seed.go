// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Seed identities used by the development data.
const (
	SeedAuthorEmail  = "author@inkpress.local"
	SeedCategorySlug = "general"
)

// Seed populates the database with initial development data: one author
// and one root category. It does nothing once any user exists.
func Seed(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	authorID := uuid.New()
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO users (id, email, first_name, last_name, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
	`, authorID, SeedAuthorEmail, "Ink", "Author"); err != nil {
		return fmt.Errorf("seed insert author: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO categories (id, name, slug, description, sort_order)
		VALUES ($1, $2, $3, $4, 0)
		ON CONFLICT (slug) DO NOTHING
	`, uuid.New(), "General", SeedCategorySlug, "Everything that fits nowhere else"); err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with development data",
		"author", SeedAuthorEmail,
		"author_id", authorID,
		"category", SeedCategorySlug,
	)
	return nil
}
