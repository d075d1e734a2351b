// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Entity holds the identity, audit, and visibility columns every
// content-bearing table carries.
type Entity struct {
	ID         uuid.UUID  `json:"id"`
	CreatedAt  time.Time  `json:"created_date"`
	ModifiedAt *time.Time `json:"modified_date,omitempty"`
	IsDeleted  bool       `json:"is_deleted"`
	IsPublish  bool       `json:"is_publish"`
}

// NewEntity returns a visible, non-deleted entity with a fresh ID.
func NewEntity(now time.Time) Entity {
	return Entity{
		ID:        uuid.New(),
		CreatedAt: now,
		IsPublish: true,
	}
}

// SoftDelete marks the entity deleted without removing the row.
func (e *Entity) SoftDelete(now time.Time) {
	e.IsDeleted = true
	e.Touch(now)
}

// Restore undoes a soft delete and makes the entity visible again.
func (e *Entity) Restore(now time.Time) {
	e.IsDeleted = false
	e.IsPublish = true
	e.Touch(now)
}

// Touch stamps the modification time.
func (e *Entity) Touch(now time.Time) {
	t := now
	e.ModifiedAt = &t
}

// Live reports whether the entity is visible and not soft-deleted.
func (e *Entity) Live() bool {
	return e.IsPublish && !e.IsDeleted
}
