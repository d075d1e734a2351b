// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"github.com/google/uuid"
)

// Category represents a hierarchical content category.
// Articles belong to exactly one category. The parent is stored as an id
// reference and resolved by lookup.
type Category struct {
	Entity

	Name             string     `json:"name"`
	Description      *string    `json:"description,omitempty"`
	Slug             string     `json:"slug"`
	Icon             *string    `json:"icon,omitempty"`
	Color            *string    `json:"color,omitempty"`
	ParentCategoryID *uuid.UUID `json:"parent_category_id,omitempty"`
	Order            int        `json:"order"`
}

// HasParent reports whether the category sits below another category.
func (c *Category) HasParent() bool {
	return c.ParentCategoryID != nil
}

// SameParent compares two optional parent ids (both nil or same value).
func SameParent(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
