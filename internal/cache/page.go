// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides a Valkey-backed cache for injected blog post HTML.
// When the metadata injector produces a page, the result is stored in
// Valkey so subsequent crawler hits skip the store query, the template
// fetch, and the tag rewriting entirely. All methods are nil-receiver
// safe: when Valkey is not configured the cache degrades to a no-op.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached blog pages.
	pageKeyPrefix = "blog:"

	// DefaultPageTTL is how long an injected page stays cached.
	DefaultPageTTL = 5 * time.Minute
)

// PageCache manages injected-HTML caching in Valkey, keyed by post slug.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl == 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// Get retrieves cached HTML for a slug. Returns false on miss or when the
// cache is not configured.
func (pc *PageCache) Get(ctx context.Context, slug string) ([]byte, bool) {
	if pc == nil {
		return nil, false
	}
	val, err := pc.client.Get(ctx, pageKeyPrefix+slug).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "slug", slug, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "slug", slug)
	return val, true
}

// Set stores injected HTML for a slug with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, slug string, html []byte) {
	if pc == nil {
		return
	}
	if err := pc.client.Set(ctx, pageKeyPrefix+slug, html, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "slug", slug, "error", err)
	}
}

// Invalidate removes a single cached page by slug. The webhook calls this
// after every upsert so a re-published post never serves stale metadata
// for the full TTL.
func (pc *PageCache) Invalidate(ctx context.Context, slug string) {
	if pc == nil {
		return
	}
	if err := pc.client.Del(ctx, pageKeyPrefix+slug).Err(); err != nil {
		slog.Warn("page cache invalidate error", "slug", slug, "error", err)
	}
	slog.Debug("page cache invalidated", "slug", slug)
}
