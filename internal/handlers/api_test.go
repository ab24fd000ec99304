// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pulsewise/internal/models"
	"pulsewise/internal/store"
)

func doPosts(t *testing.T, api *API, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	api.Posts(rec, req)
	return rec
}

func decodePosts(t *testing.T, rec *httptest.ResponseRecorder) []models.BlogPost {
	t.Helper()
	var body struct {
		Posts []models.BlogPost `json:"posts"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body.Posts
}

func TestAPIListsPublishedPosts(t *testing.T) {
	api := NewAPI(&fakeStore{posts: testPosts()})

	rec := doPosts(t, api, "/api/blog-posts")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if cc := rec.Header().Get("Cache-Control"); !strings.Contains(cc, "max-age=300") {
		t.Errorf("Cache-Control = %q, want 5-minute public cache", cc)
	}

	posts := decodePosts(t, rec)
	if len(posts) != 3 {
		t.Fatalf("got %d posts, want 3 published", len(posts))
	}
	for _, p := range posts {
		if p.Slug == "unpublished-draft" {
			t.Error("listing included an unpublished draft")
		}
	}
}

func TestAPISlugLookup(t *testing.T) {
	api := NewAPI(&fakeStore{posts: testPosts()})

	rec := doPosts(t, api, "/api/blog-posts?slug=middle-post")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Post *models.BlogPost `json:"post"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Post == nil || body.Post.Slug != "middle-post" {
		t.Fatalf("post = %+v, want middle-post", body.Post)
	}
}

func TestAPISlugNotFound(t *testing.T) {
	api := NewAPI(&fakeStore{posts: testPosts()})

	rec := doPosts(t, api, "/api/blog-posts?slug=no-such-post")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	// The body still carries JSON with an explicit null post.
	if got := strings.TrimSpace(rec.Body.String()); got != `{"post":null}` {
		t.Errorf("body = %q, want {\"post\":null}", got)
	}
}

func TestAPITagAndCategoryFilters(t *testing.T) {
	api := NewAPI(&fakeStore{posts: testPosts()})

	posts := decodePosts(t, doPosts(t, api, "/api/blog-posts?tag=go"))
	if len(posts) != 2 {
		t.Fatalf("tag=go returned %d posts, want 2", len(posts))
	}

	posts = decodePosts(t, doPosts(t, api, "/api/blog-posts?category=product"))
	if len(posts) != 1 || posts[0].Slug != "oldest-post" {
		t.Fatalf("category=product returned %+v, want only oldest-post", posts)
	}
}

func TestAPIExcludeSlug(t *testing.T) {
	st := &fakeStore{posts: testPosts()}
	api := NewAPI(st)

	posts := decodePosts(t, doPosts(t, api, "/api/blog-posts?exclude=latest-post&limit=2"))
	if len(posts) != 2 {
		t.Fatalf("got %d posts, want 2", len(posts))
	}
	for _, p := range posts {
		if p.Slug == "latest-post" {
			t.Error("excluded slug still present in listing")
		}
	}
	// The store query over-fetches by one so the page stays full.
	if st.lastOpts.Limit != 3 {
		t.Errorf("store limit = %d, want 3 (requested 2 plus one)", st.lastOpts.Limit)
	}
}

func TestAPILimitParsing(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int // effective limit passed to the store
	}{
		{"default", "", store.DefaultLimit},
		{"explicit", "?limit=7", 7},
		{"zero", "?limit=0", store.DefaultLimit},
		{"negative", "?limit=-3", store.DefaultLimit},
		{"non-numeric", "?limit=abc", store.DefaultLimit},
		{"above max", "?limit=500", store.MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &fakeStore{posts: testPosts()}
			api := NewAPI(st)
			doPosts(t, api, "/api/blog-posts"+tt.query)
			if got := st.lastOpts.Clamp(); got != tt.want {
				t.Errorf("effective limit = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAPIEmptyListingIsJSONArray(t *testing.T) {
	api := NewAPI(&fakeStore{})

	rec := doPosts(t, api, "/api/blog-posts")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"posts":[]}` {
		t.Errorf("body = %q, want empty posts array, not null", got)
	}
}

func TestAPIMethodNotAllowed(t *testing.T) {
	api := NewAPI(&fakeStore{posts: testPosts()})

	req := httptest.NewRequest(http.MethodPost, "/api/blog-posts", nil)
	rec := httptest.NewRecorder()
	api.Posts(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestAPIStoreError(t *testing.T) {
	api := NewAPI(&fakeStore{err: errStoreDown})

	rec := doPosts(t, api, "/api/blog-posts")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	// The upstream error text must never reach the caller.
	if strings.Contains(rec.Body.String(), errStoreDown.Error()) {
		t.Error("response leaked internal error detail")
	}
}
