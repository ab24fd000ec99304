// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pulsewise/internal/cache"
	"pulsewise/internal/seo"
	"pulsewise/internal/store"
	"pulsewise/internal/textutil"
)

// Cache lifetimes for server-rendered pages. Injected pages are safe to
// cache for an hour because the webhook invalidates the Valkey entry on
// every upsert and CDN copies revalidate in the background.
const (
	pageCacheControl     = "public, max-age=3600, s-maxage=3600, stale-while-revalidate=86400"
	fallbackCacheControl = "public, max-age=300"
)

// BlogPage serves /blog/{slug}: the shared post template with its SEO
// tags rewritten for that specific post, so crawlers index per-post
// metadata without running any client-side code.
type BlogPage struct {
	reader    store.Reader
	templates seo.TemplateSource
	injector  *seo.Injector
	pageCache *cache.PageCache
}

// NewBlogPage creates the blog page handler group. pageCache may be nil.
func NewBlogPage(reader store.Reader, templates seo.TemplateSource, injector *seo.Injector, pageCache *cache.PageCache) *BlogPage {
	return &BlogPage{
		reader:    reader,
		templates: templates,
		injector:  injector,
		pageCache: pageCache,
	}
}

// Post handles GET /blog/{slug}. An empty slug or the literal "blog"
// serves the listing page unmodified; everything else goes through the
// metadata injector. Unknown slugs get a plain 404 so crawlers never
// index a template for a post that does not exist.
func (b *BlogPage) Post(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "slug")
	w.Header().Set("X-Edge-Function", "blog-post")

	if slugParam == "" || slugParam == "blog" {
		b.Listing(w, r)
		return
	}

	if cached, ok := b.pageCache.Get(ctx, slugParam); ok {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", pageCacheControl)
		w.Header().Set("X-Post-Status", "cached")
		w.Write(cached)
		return
	}

	post, err := b.reader.FindBySlug(ctx, slugParam)
	if err != nil {
		slog.Error("find post for page failed", "error", err, "slug", slugParam)
		b.fallback(w, r)
		return
	}

	if post == nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("X-Post-Status", "not-found")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Blog post not found"))
		return
	}

	tmpl, err := b.templates.Fetch(ctx, seo.TemplatePost)
	if err != nil {
		slog.Error("fetch post template failed", "error", err)
		http.Error(w, "Blog post template not found", http.StatusInternalServerError)
		return
	}

	html := b.injector.Inject(tmpl, post)
	b.pageCache.Set(ctx, slugParam, []byte(html))

	// Trimmed on a rune boundary so multibyte titles stay valid UTF-8.
	title := textutil.Truncate(seo.EscapeHTML(post.DisplayTitle()), 50)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", pageCacheControl)
	w.Header().Set("X-Canonical-Injected", b.injector.CanonicalURL(post.Slug))
	w.Header().Set("X-Post-Status", "validated")
	w.Header().Set("X-Post-Title", title)
	w.Write([]byte(html))
}

// Listing handles GET /blog: the static listing template, served as-is.
func (b *BlogPage) Listing(w http.ResponseWriter, r *http.Request) {
	tmpl, err := b.templates.Fetch(r.Context(), seo.TemplateListing)
	if err != nil {
		slog.Error("fetch listing template failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", pageCacheControl)
	w.Write([]byte(tmpl))
}

// fallback serves the unmodified post template with a short cache life
// when the store is unreachable. Crawlers get a degraded page instead of
// an error; the client-side code can still fetch the post itself.
func (b *BlogPage) fallback(w http.ResponseWriter, r *http.Request) {
	tmpl, err := b.templates.Fetch(r.Context(), seo.TemplatePost)
	if err != nil {
		slog.Error("fallback template fetch failed", "error", err)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", fallbackCacheControl)
	w.Header().Set("X-Post-Status", "fallback-error")
	w.Write([]byte(tmpl))
}
