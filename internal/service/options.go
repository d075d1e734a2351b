// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"log/slog"
	"time"
)

// DetailCache is a read-through cache for projections. Implementations
// treat their own failures as misses.
type DetailCache interface {
	Get(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key string, v any)
	Delete(ctx context.Context, keys ...string)
	// Clear drops every entry. Category and tag writes use it because any
	// number of cached articles may show the changed name.
	Clear(ctx context.Context)
}

type options struct {
	now    func() time.Time
	log    *slog.Logger
	cache  DetailCache
	policy CountPolicy
}

// clearCache drops cached article details after a write they embed.
func (o options) clearCache(ctx context.Context) {
	if o.cache != nil {
		o.cache.Clear(ctx)
	}
}

// Option configures a service.
type Option func(*options)

// WithClock replaces the time source used for audit timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the base logger; services add a component attribute.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithCache enables the article detail cache.
func WithCache(c DetailCache) Option {
	return func(o *options) { o.cache = c }
}

// WithCountPolicy selects which comments count toward Article.CommentCount.
func WithCountPolicy(p CountPolicy) Option {
	return func(o *options) { o.policy = p }
}

func buildOptions(component string, opts []Option) options {
	o := options{
		now:    func() time.Time { return time.Now().UTC() },
		log:    slog.Default(),
		policy: CountOnCreate,
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.log = o.log.With("component", component)
	return o
}

// visibility returns the IsPublish value for a create request.
func visibility(isPublish *bool) bool {
	return isPublish == nil || *isPublish
}
