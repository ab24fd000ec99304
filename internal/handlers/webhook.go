// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"pulsewise/internal/cache"
	"pulsewise/internal/markdown"
	"pulsewise/internal/models"
	"pulsewise/internal/sanitize"
	"pulsewise/internal/slug"
	"pulsewise/internal/store"
	"pulsewise/internal/textutil"
)

// maxWebhookBody caps the ingestion payload size.
const maxWebhookBody = 2 << 20 // 2 MB

// Webhook receives blog post content from the external writing service
// and upserts it into the post collection, keyed by slug.
type Webhook struct {
	store         store.Store
	pageCache     *cache.PageCache
	apiKey        string
	allowedOrigin string
}

// NewWebhook creates the ingestion webhook handler. pageCache may be nil.
// allowedOrigin restricts CORS; "*" allows any origin.
func NewWebhook(st store.Store, pageCache *cache.PageCache, apiKey, allowedOrigin string) *Webhook {
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	return &Webhook{
		store:         st,
		pageCache:     pageCache,
		apiKey:        apiKey,
		allowedOrigin: allowedOrigin,
	}
}

// webhookPayload accepts both the legacy field names (title/content) and
// the third-party writing service's names (headline/html/metaDescription/
// image). Tags arrive either as strings or as objects carrying a title.
type webhookPayload struct {
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Excerpt string `json:"excerpt"`
	Content string `json:"content"`

	Headline        string `json:"headline"`
	HTML            string `json:"html"`
	Markdown        string `json:"markdown"`
	MetaDescription string `json:"metaDescription"`
	Image           string `json:"image"`

	FeaturedImage string            `json:"featuredImage"`
	Author        *models.Author    `json:"author"`
	Tags          []json.RawMessage `json:"tags"`
	Category      json.RawMessage   `json:"category"`
	Published     *bool             `json:"published"`
	SEOTitle      string            `json:"seoTitle"`
	SEODesc       string            `json:"seoDescription"`
	ReadingTime   int               `json:"readingTime"`
	MetaKeywords  string            `json:"metaKeywords"`
	Outline       string            `json:"outline"`
}

// Receive handles POST /api/blog-webhook plus its OPTIONS preflight.
func (h *Webhook) Receive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", h.allowedOrigin)
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, x-api-key")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	// Refuse to run without a configured secret rather than accepting
	// everything.
	if h.apiKey == "" {
		slog.Error("webhook called but no API key is configured")
		writeJSONError(w, http.StatusInternalServerError, "Webhook not configured")
		return
	}
	if r.Header.Get("x-api-key") != h.apiKey {
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	media, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || media != "application/json" {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var payload webhookPayload
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err := dec.Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	post, problem := h.normalize(&payload)
	if problem != "" {
		writeJSONError(w, http.StatusBadRequest, problem)
		return
	}

	id, created, err := h.store.Upsert(r.Context(), post)
	if err != nil {
		slog.Error("webhook upsert failed", "error", err, "slug", post.Slug)
		writeJSONError(w, http.StatusInternalServerError, "Failed to process blog post")
		return
	}

	// Drop any cached rendering of this slug so crawlers never see stale
	// metadata for the full cache TTL.
	h.pageCache.Invalidate(r.Context(), post.Slug)

	status := http.StatusCreated
	message := "Blog post created successfully"
	if !created {
		status = http.StatusOK
		message = "Blog post updated successfully"
	}
	slog.Info("webhook upsert", "slug", post.Slug, "id", id, "created", created)

	writeJSON(w, status, map[string]any{
		"success": true,
		"id":      id,
		"slug":    post.Slug,
		"message": message,
	})
}

// normalize maps an accepted payload onto the internal post schema and
// derives the computed fields. Returns a non-empty problem string for
// payloads missing both a title and a content body.
func (h *Webhook) normalize(p *webhookPayload) (*models.BlogPost, string) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = strings.TrimSpace(p.Headline)
	}

	content := p.Content
	if content == "" {
		content = p.HTML
	}
	if content == "" && p.Markdown != "" {
		rendered, err := markdown.ToHTML(p.Markdown)
		if err != nil {
			slog.Warn("webhook markdown render failed", "error", err)
		} else {
			content = rendered
		}
	}

	if title == "" || content == "" {
		return nil, "Title and content are required"
	}

	// Ingested HTML comes from an external service; strip anything that
	// could execute in a reader's browser.
	content = sanitize.HTML(content)

	postSlug := strings.TrimSpace(p.Slug)
	if postSlug == "" {
		postSlug = slug.Generate(title)
	}

	excerpt := p.Excerpt
	if excerpt == "" {
		excerpt = textutil.Excerpt(content)
	}

	seoDesc := p.SEODesc
	if seoDesc == "" {
		seoDesc = p.MetaDescription
	}
	if seoDesc == "" {
		if p.Excerpt != "" {
			seoDesc = p.Excerpt
		} else {
			seoDesc = textutil.MetaDescription(content)
		}
	}

	seoTitle := p.SEOTitle
	if seoTitle == "" {
		seoTitle = title
	}

	readingTime := p.ReadingTime
	if readingTime <= 0 {
		readingTime = textutil.ReadingTime(content)
	}

	featured := p.FeaturedImage
	if featured == "" {
		featured = p.Image
	}

	author := models.Author{Name: models.DefaultAuthorName}
	if p.Author != nil {
		if p.Author.Name != "" {
			author.Name = p.Author.Name
		}
		author.Avatar = p.Author.Avatar
	}

	published := true
	if p.Published != nil {
		published = *p.Published
	}

	now := time.Now().UTC()
	post := &models.BlogPost{
		Title:        title,
		Slug:         postSlug,
		Excerpt:      excerpt,
		Content:      content,
		Markdown:     p.Markdown,
		Author:       author,
		Tags:         normalizeTags(p.Tags),
		Published:    published,
		SEOTitle:     seoTitle,
		SEODesc:      seoDesc,
		ReadingTime:  readingTime,
		MetaKeywords: p.MetaKeywords,
		Outline:      p.Outline,
	}
	if featured != "" {
		post.FeaturedImage = &featured
	}
	if c := normalizeCategory(p.Category); c != "" {
		post.Category = &c
	}
	if published {
		post.PublishedAt = &now
	}
	return post, ""
}

// normalizeCategory accepts a category as either a bare string or an
// object with a title field.
func normalizeCategory(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return strings.TrimSpace(obj.Title)
	}
	return ""
}

// normalizeTags flattens a tags array where each element is either a bare
// string or a tag object with a title field.
func normalizeTags(raw []json.RawMessage) []string {
	tags := []string{}
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if s != "" {
				tags = append(tags, s)
			}
			continue
		}
		var obj struct {
			Title string `json:"title"`
		}
		if err := json.Unmarshal(item, &obj); err == nil && obj.Title != "" {
			tags = append(tags, obj.Title)
		}
	}
	return tags
}
