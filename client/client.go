// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package client is a small convenience layer over the public blog read
// API. It builds the query strings the API understands, decodes its
// response envelopes, and re-exports the display helpers consumers need
// when rendering posts.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pulsewise/internal/models"
	"pulsewise/internal/textutil"
)

// Post is the serialized blog post the read API returns.
type Post = models.BlogPost

// ListQuery narrows a post listing request. Zero values are omitted from
// the query string.
type ListQuery struct {
	Tag      string
	Category string
	Exclude  string // slug to drop from the listing
	Limit    int
}

// Client talks to one deployment of the blog read API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the given deployment base URL, e.g.
// "https://www.pulsewise.app".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// buildURL assembles the read API URL for the given query values.
func (c *Client) buildURL(q url.Values) string {
	u := c.baseURL + "/api/blog-posts"
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// ListPosts fetches published posts matching the query, newest first.
func (c *Client) ListPosts(ctx context.Context, query ListQuery) ([]Post, error) {
	q := url.Values{}
	if query.Tag != "" {
		q.Set("tag", query.Tag)
	}
	if query.Category != "" {
		q.Set("category", query.Category)
	}
	if query.Exclude != "" {
		q.Set("exclude", query.Exclude)
	}
	if query.Limit > 0 {
		q.Set("limit", strconv.Itoa(query.Limit))
	}

	var body struct {
		Posts []Post `json:"posts"`
	}
	if err := c.get(ctx, c.buildURL(q), &body); err != nil {
		return nil, err
	}
	return body.Posts, nil
}

// GetPost fetches a single published post by slug. Returns (nil, nil)
// when no such post exists.
func (c *Client) GetPost(ctx context.Context, slug string) (*Post, error) {
	q := url.Values{}
	q.Set("slug", slug)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(q), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch post %s: %w", slug, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch post %s: status %d", slug, resp.StatusCode)
	}

	var body struct {
		Post *Post `json:"post"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode post %s: %w", slug, err)
	}
	return body.Post, nil
}

// get performs a GET request and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: status %d", u, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", u, err)
	}
	return nil
}

// Display helpers, re-exported so consumers render posts the same way
// the server does.

// StripTags removes all HTML tags from a string.
func StripTags(s string) string { return textutil.StripTags(s) }

// Truncate cuts a string to at most n characters.
func Truncate(s string, n int) string { return textutil.Truncate(s, n) }

// FormatDate renders a publish time as an absolute date, e.g.
// "March 4, 2026". Nil renders as "Draft".
func FormatDate(t *time.Time) string { return textutil.FormatDate(t) }

// FormatRelativeDate renders a publish time relative to now, e.g.
// "2 days ago".
func FormatRelativeDate(t *time.Time) string { return textutil.FormatRelativeDate(t) }
