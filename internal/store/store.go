// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides access to the blog post document collection.
//
// Two backends implement the same read interface: a native mongo-driver
// backend for ordinary server contexts, and an HTTP query-protocol backend
// for restricted runtimes where the driver is unavailable. Call sites hold
// the interface and never care which one they got.
package store

import (
	"context"

	"pulsewise/internal/models"
)

const (
	// DefaultLimit is the page size used when the caller supplies none.
	DefaultLimit = 50

	// MaxLimit caps the page size of any listing query.
	MaxLimit = 100
)

// ListOptions narrows a published-post listing. Zero values mean "no filter".
type ListOptions struct {
	Tag      string // posts whose tags array contains this value
	Category string // posts with exactly this category
	Limit    int    // page size; clamped to [1, MaxLimit], 0 → DefaultLimit
}

// Clamp returns the effective page size for these options.
func (o ListOptions) Clamp() int {
	if o.Limit <= 0 {
		return DefaultLimit
	}
	if o.Limit > MaxLimit {
		return MaxLimit
	}
	return o.Limit
}

// Reader is the read-only view of the post collection. Published posts
// only; lookups of unpublished or absent slugs return (nil, nil).
type Reader interface {
	// FindBySlug returns the published post with the given slug, or nil.
	FindBySlug(ctx context.Context, slug string) (*models.BlogPost, error)

	// List returns published posts ordered by publishedAt descending.
	List(ctx context.Context, opts ListOptions) ([]models.BlogPost, error)

	// AllPublished returns every published post ordered by publishedAt
	// descending, without the page-size cap List applies.
	AllPublished(ctx context.Context) ([]models.BlogPost, error)
}

// Store adds the write path used by the ingestion webhook.
type Store interface {
	Reader

	// Upsert inserts the post or, when a document with the same slug
	// already exists, overwrites it while preserving the original
	// createdAt. Returns the document ID and whether a new document
	// was created.
	Upsert(ctx context.Context, post *models.BlogPost) (id string, created bool, err error)
}
