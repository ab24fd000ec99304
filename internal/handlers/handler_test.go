// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure: an in-memory store
// backend and a fixed template source, so handler tests run without
// MongoDB or a static origin.
package handlers

import (
	"context"
	"errors"
	"time"

	"pulsewise/internal/models"
	"pulsewise/internal/seo"
	"pulsewise/internal/store"
)

// fakeStore implements store.Store over a slice of posts.
type fakeStore struct {
	posts    []models.BlogPost
	err      error // returned from every method when set
	upserted *models.BlogPost
	lastOpts store.ListOptions
}

func (f *fakeStore) FindBySlug(_ context.Context, slug string) (*models.BlogPost, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.posts {
		if f.posts[i].Slug == slug && f.posts[i].Published {
			return &f.posts[i], nil
		}
	}
	return nil, nil
}

func (f *fakeStore) List(_ context.Context, opts store.ListOptions) ([]models.BlogPost, error) {
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	var out []models.BlogPost
	for _, p := range f.posts {
		if !p.Published {
			continue
		}
		if opts.Tag != "" && !containsTag(p.Tags, opts.Tag) {
			continue
		}
		if opts.Category != "" && (p.Category == nil || *p.Category != opts.Category) {
			continue
		}
		out = append(out, p)
		if len(out) == opts.Clamp() {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) AllPublished(_ context.Context) ([]models.BlogPost, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.BlogPost
	for _, p := range f.posts {
		if p.Published {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) Upsert(_ context.Context, post *models.BlogPost) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	f.upserted = post
	for i := range f.posts {
		if f.posts[i].Slug == post.Slug {
			post.CreatedAt = f.posts[i].CreatedAt
			f.posts[i] = *post
			return "existing-id", false, nil
		}
	}
	f.posts = append(f.posts, *post)
	return "new-id", true, nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// fakeTemplates implements seo.TemplateSource from a map.
type fakeTemplates struct {
	pages map[string]string
	err   error
}

func (f *fakeTemplates) Fetch(_ context.Context, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	body, ok := f.pages[name]
	if !ok {
		return "", errors.New("template not found: " + name)
	}
	return body, nil
}

var errStoreDown = errors.New("store unavailable")

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

// testPosts returns three published posts and one draft, newest first.
func testPosts() []models.BlogPost {
	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	return []models.BlogPost{
		{
			Title:       "Latest Post",
			Slug:        "latest-post",
			Excerpt:     "The newest one.",
			Content:     "<p>Newest body</p>",
			Tags:        []string{"go", "infra"},
			Category:    strPtr("engineering"),
			Published:   true,
			PublishedAt: timePtr(base.AddDate(0, 0, 2)),
		},
		{
			Title:       "Middle Post",
			Slug:        "middle-post",
			Excerpt:     "The middle one.",
			Content:     "<p>Middle body</p>",
			Tags:        []string{"go"},
			Published:   true,
			PublishedAt: timePtr(base.AddDate(0, 0, 1)),
		},
		{
			Title:       "Oldest Post",
			Slug:        "oldest-post",
			Excerpt:     "The oldest one.",
			Content:     "<p>Oldest body</p>",
			Category:    strPtr("product"),
			Published:   true,
			PublishedAt: timePtr(base),
		},
		{
			Title:     "Unpublished Draft",
			Slug:      "unpublished-draft",
			Content:   "<p>Draft body</p>",
			Published: false,
		},
	}
}

// postTemplate is a minimal blog post template with every placeholder tag
// the injector rewrites.
const postTemplate = `<!DOCTYPE html>
<html>
<head>
<title>Blog Post</title>
<meta name="description" content="Placeholder description">
<link rel="canonical" href="https://example.com/blog">
<meta property="og:title" content="Placeholder">
<meta property="og:description" content="Placeholder">
<meta property="og:url" content="https://example.com/blog">
<meta property="og:image" content="https://example.com/placeholder.png">
<meta name="twitter:title" content="Placeholder">
<meta name="twitter:description" content="Placeholder">
<meta name="twitter:image" content="https://example.com/placeholder.png">
</head>
<body><div id="post"></div></body>
</html>`

const listingTemplate = `<!DOCTYPE html>
<html><head><title>Blog</title></head><body><div id="posts"></div></body></html>`

func testTemplates() *fakeTemplates {
	return &fakeTemplates{pages: map[string]string{
		seo.TemplatePost:    postTemplate,
		seo.TemplateListing: listingTemplate,
	}}
}

func testInjector() *seo.Injector {
	return seo.New(seo.Site{
		Name:          "Pulsewise",
		BaseURL:       "https://www.pulsewise.app",
		DefaultImage:  "https://www.pulsewise.app/assets/images/social-preview.png",
		PublisherLogo: "https://www.pulsewise.app/assets/images/logo.png",
	})
}
