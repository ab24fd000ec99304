// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"pulsewise/internal/models"
	"pulsewise/internal/store"
)

// apiCacheControl lets CDNs serve listing responses for five minutes and
// revalidate stale copies in the background for up to an hour.
const apiCacheControl = "public, max-age=300, s-maxage=300, stale-while-revalidate=3600"

// API serves the public read endpoint over published blog posts. It only
// ever reads, so it holds the read-only store view.
type API struct {
	reader store.Reader
}

// NewAPI creates the public read API handler group.
func NewAPI(reader store.Reader) *API {
	return &API{reader: reader}
}

// Posts handles GET /api/blog-posts. With ?slug= it is a point lookup
// returning {"post": ...} (404 with {"post": null} when absent). Otherwise
// it returns {"posts": [...]} filtered by ?tag= and ?category=, newest
// first, with ?limit= clamped to the maximum page size. ?exclude= drops
// one slug from the listing, over-fetching by one so a full page survives
// the removal.
func (a *API) Posts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", apiCacheControl)

	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	ctx := r.Context()
	q := r.URL.Query()

	if slug := q.Get("slug"); slug != "" {
		post, err := a.reader.FindBySlug(ctx, slug)
		if err != nil {
			slog.Error("find post by slug failed", "error", err, "slug", slug)
			writeJSONError(w, http.StatusInternalServerError, "Failed to fetch blog posts")
			return
		}
		if post == nil {
			writeJSON(w, http.StatusNotFound, map[string]any{"post": nil})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"post": post})
		return
	}

	opts := store.ListOptions{
		Tag:      q.Get("tag"),
		Category: q.Get("category"),
		Limit:    parseLimit(q.Get("limit")),
	}
	exclude := q.Get("exclude")

	limit := opts.Clamp()
	if exclude != "" {
		// Fetch one extra so removing the excluded slug still yields a
		// full page.
		opts.Limit = limit + 1
	}

	posts, err := a.reader.List(ctx, opts)
	if err != nil {
		slog.Error("list posts failed", "error", err, "tag", opts.Tag, "category", opts.Category)
		writeJSONError(w, http.StatusInternalServerError, "Failed to fetch blog posts")
		return
	}

	if exclude != "" {
		filtered := posts[:0]
		for _, p := range posts {
			if p.Slug != exclude {
				filtered = append(filtered, p)
			}
		}
		if len(filtered) > limit {
			filtered = filtered[:limit]
		}
		posts = filtered
	}

	if posts == nil {
		posts = []models.BlogPost{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// parseLimit parses a ?limit= value. Non-numeric or non-positive values
// come back as 0, which ListOptions treats as "use the default".
func parseLimit(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
