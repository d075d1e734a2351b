// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Tag is a label that can be attached to many articles. UsageCount is an
// explicit counter and is not derived from the number of links.
type Tag struct {
	Entity

	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`
	UsageCount  int     `json:"usage_count"`
}
