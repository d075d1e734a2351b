// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package paging turns page/size/sort parameters into a bounded, ordered
// window over a result set. Pages are 1-based everywhere.
package paging

import "strings"

const (
	// DefaultPageSize is used when a caller passes no usable page size.
	DefaultPageSize = 10
	// MaxPageSize caps every page regardless of what the caller asks for.
	MaxPageSize = 100
)

// Request carries the caller's paging and sorting choices.
type Request struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	SortBy   string `json:"sort_by,omitempty"`
	SortDir  string `json:"sort_dir,omitempty"`
}

// Normalize clamps Page to >= 1 and PageSize to [1, MaxPageSize].
func (r Request) Normalize() Request {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize < 1 {
		r.PageSize = DefaultPageSize
	}
	if r.PageSize > MaxPageSize {
		r.PageSize = MaxPageSize
	}
	return r
}

// Offset is the number of rows to skip for the (normalized) page.
func (r Request) Offset() int {
	n := r.Normalize()
	return (n.Page - 1) * n.PageSize
}

// Limit is the number of rows in one page.
func (r Request) Limit() int {
	return r.Normalize().PageSize
}

// First returns a request for the first n rows, used by "top N" queries.
func First(n int) Request {
	if n < 1 {
		n = DefaultPageSize
	}
	if n > MaxPageSize {
		n = MaxPageSize
	}
	return Request{Page: 1, PageSize: n}
}

// Order is one sort term on a logical field.
type Order struct {
	Field string
	Desc  bool
}

// Sorter resolves a caller's sort key against an allow-list. Unknown keys
// fall back to a fixed default order.
type Sorter struct {
	allowed  map[string]string
	fallback []Order
}

// NewSorter builds a Sorter. keys are the accepted sort keys (matched
// case-insensitively); each maps to itself as the logical field.
func NewSorter(fallback []Order, keys ...string) Sorter {
	allowed := make(map[string]string, len(keys))
	for _, k := range keys {
		allowed[strings.ToLower(k)] = k
	}
	return Sorter{allowed: allowed, fallback: fallback}
}

// Resolve returns the orders for a request. Direction defaults to desc.
func (s Sorter) Resolve(r Request) []Order {
	field, ok := s.allowed[strings.ToLower(strings.TrimSpace(r.SortBy))]
	if !ok {
		out := make([]Order, len(s.fallback))
		copy(out, s.fallback)
		return out
	}
	return []Order{{Field: field, Desc: IsDesc(r.SortDir)}}
}

// IsDesc reports whether dir means descending. Anything but "asc" is desc.
func IsDesc(dir string) bool {
	return !strings.EqualFold(strings.TrimSpace(dir), "asc")
}

// Page is one window of results plus the total number of matching rows.
type Page[T any] struct {
	Items       []T  `json:"items"`
	TotalCount  int  `json:"total_count"`
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// New assembles a Page from a window of items and the total count.
func New[T any](items []T, total int, r Request) Page[T] {
	n := r.Normalize()
	if items == nil {
		items = []T{}
	}
	pages := 0
	if total > 0 {
		pages = (total + n.PageSize - 1) / n.PageSize
	}
	return Page[T]{
		Items:       items,
		TotalCount:  total,
		Page:        n.Page,
		PageSize:    n.PageSize,
		TotalPages:  pages,
		HasNext:     n.Page < pages,
		HasPrevious: n.Page > 1,
	}
}

// Window applies the request's offset and limit to an already ordered slice.
func Window[T any](all []T, r Request) []T {
	off := r.Offset()
	if off >= len(all) {
		return []T{}
	}
	end := off + r.Limit()
	if end > len(all) {
		end = len(all)
	}
	out := make([]T, end-off)
	copy(out, all[off:end])
	return out
}
