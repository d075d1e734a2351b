// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package job

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
)

type fakeReconciler struct {
	calls   atomic.Int32
	changed int
	err     error
	sawDL   atomic.Bool
}

func (f *fakeReconciler) ReconcileCommentCounts(ctx context.Context) (int, error) {
	f.calls.Add(1)
	if _, ok := ctx.Deadline(); ok {
		f.sawDL.Store(true)
	}
	return f.changed, f.err
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCommentCountJobRun(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	r := &fakeReconciler{changed: 3}
	NewCommentCountJob(r, time.Minute, log).Run()

	if r.calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", r.calls.Load())
	}
	if !r.sawDL.Load() {
		t.Error("reconcile ran without a deadline")
	}
	if !strings.Contains(buf.String(), "articles=3") {
		t.Errorf("log = %q, want drift count", buf.String())
	}

	buf.Reset()
	r = &fakeReconciler{err: errors.New("db down")}
	NewCommentCountJob(r, time.Minute, log).Run()
	if !strings.Contains(buf.String(), "db down") {
		t.Errorf("log = %q, want the error", buf.String())
	}
}

func TestSchedulerRegister(t *testing.T) {
	s := NewScheduler(discard())
	job := NewCommentCountJob(&fakeReconciler{}, time.Second, discard())

	tests := []struct {
		spec    string
		wantErr bool
	}{
		{"@hourly", false},
		{"0 */5 * * * *", false},
		{"every tuesday", true},
	}
	for _, tt := range tests {
		err := s.Register(tt.spec, job)
		if (err != nil) != tt.wantErr {
			t.Errorf("Register(%q) err = %v, wantErr %v", tt.spec, err, tt.wantErr)
		}
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
}

func TestSchedulerRunsJobs(t *testing.T) {
	s := NewScheduler(discard())
	r := &fakeReconciler{}
	if err := s.Register("@every 1s", NewCommentCountJob(r, time.Second, discard())); err != nil {
		t.Fatal(err)
	}
	s.Start()
	deadline := time.Now().Add(3 * time.Second)
	for r.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	s.Stop()
	if r.calls.Load() == 0 {
		t.Error("job never ran")
	}
}

func TestRecoverWrapper(t *testing.T) {
	var buf bytes.Buffer
	wrapped := recoverWrapper(slog.New(slog.NewTextHandler(&buf, nil)), "exploder")(cron.FuncJob(func() {
		panic("boom")
	}))

	wrapped.Run()
	if !strings.Contains(buf.String(), "job panicked") || !strings.Contains(buf.String(), "job=exploder") {
		t.Errorf("log = %q", buf.String())
	}
}

func TestJobName(t *testing.T) {
	if got := jobName(&CommentCountJob{}); got != "comment-count-reconcile" {
		t.Errorf("named = %q", got)
	}
	if got := jobName(cron.FuncJob(func() {})); got != "cron.FuncJob" {
		t.Errorf("unnamed = %q", got)
	}
}

// syncBuffer lets the cron goroutine and the test share one log buffer.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestScheduledRunsLogJobName(t *testing.T) {
	var out syncBuffer
	log := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s := NewScheduler(log)
	r := &fakeReconciler{}
	if err := s.Register("@every 1s", NewCommentCountJob(r, time.Second, discard())); err != nil {
		t.Fatal(err)
	}
	s.Start()
	deadline := time.Now().Add(3 * time.Second)
	for !strings.Contains(out.String(), "job finished") && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	s.Stop()

	logs := out.String()
	if !strings.Contains(logs, "msg=\"job finished\" job=comment-count-reconcile") {
		t.Errorf("run log should carry the job name, got:\n%s", logs)
	}
	if strings.Contains(logs, "job=cron.FuncJob") {
		t.Errorf("run log names the wrapper instead of the job:\n%s", logs)
	}
}
