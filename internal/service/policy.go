// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"fmt"
	"strings"

	"inkpress/internal/models"
)

// CountPolicy decides which comments count toward Article.CommentCount.
type CountPolicy int

const (
	// CountOnCreate counts pending and approved comments, so a comment
	// is counted from the moment it is posted until it is rejected.
	CountOnCreate CountPolicy = iota
	// CountApprovedOnly counts approved comments only.
	CountApprovedOnly
)

// ParseCountPolicy reads the configuration spelling of a policy.
func ParseCountPolicy(s string) (CountPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "on_create":
		return CountOnCreate, nil
	case "approved_only":
		return CountApprovedOnly, nil
	}
	return 0, fmt.Errorf("unknown comment count policy %q", s)
}

func (p CountPolicy) String() string {
	if p == CountApprovedOnly {
		return "approved_only"
	}
	return "on_create"
}

// Counts reports whether a live comment in status st is counted.
func (p CountPolicy) Counts(st models.CommentStatus) bool {
	switch st {
	case models.CommentStatusApproved:
		return true
	case models.CommentStatusPending:
		return p == CountOnCreate
	}
	return false
}

// Delta is the change in CommentCount when a live comment moves from one
// status to another.
func (p CountPolicy) Delta(from, to models.CommentStatus) int {
	return b2i(p.Counts(to)) - b2i(p.Counts(from))
}

// Counted lists the statuses that count under p.
func (p CountPolicy) Counted() []models.CommentStatus {
	var out []models.CommentStatus
	for _, st := range []models.CommentStatus{models.CommentStatusPending, models.CommentStatusApproved, models.CommentStatusRejected} {
		if p.Counts(st) {
			out = append(out, st)
		}
	}
	return out
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
