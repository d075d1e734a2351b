// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package job

import (
	"context"
	"log/slog"
	"time"
)

// Reconciler recomputes denormalized comment counters.
type Reconciler interface {
	ReconcileCommentCounts(ctx context.Context) (int, error)
}

// CommentCountJob repairs Article.CommentCount drift left by concurrent
// moderation or by comment edits that bypass the counter.
type CommentCountJob struct {
	reconciler Reconciler
	timeout    time.Duration
	log        *slog.Logger
}

// NewCommentCountJob creates the job. Each run is bounded by timeout.
func NewCommentCountJob(r Reconciler, timeout time.Duration, log *slog.Logger) *CommentCountJob {
	return &CommentCountJob{reconciler: r, timeout: timeout, log: log}
}

// Name implements Named.
func (j *CommentCountJob) Name() string { return "comment-count-reconcile" }

// Run implements cron.Job.
func (j *CommentCountJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	n, err := j.reconciler.ReconcileCommentCounts(ctx)
	if err != nil {
		j.log.Error("comment count reconcile failed", "error", err)
		return
	}
	if n > 0 {
		j.log.Warn("comment counts drifted", "articles", n)
	}
}
