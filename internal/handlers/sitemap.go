// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/xml"
	"log/slog"
	"net/http"
	"time"

	"pulsewise/internal/store"
)

const sitemapCacheControl = "public, max-age=3600, s-maxage=3600, stale-while-revalidate=86400"

// sitemapURL is one <url> entry in the sitemap protocol.
type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// urlSet is the sitemap protocol root element.
type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap serves /sitemap.xml: the fixed marketing routes plus one entry
// per published blog post.
type Sitemap struct {
	reader  store.Reader
	baseURL string
}

// NewSitemap creates the sitemap handler for the given canonical base URL.
func NewSitemap(reader store.Reader, baseURL string) *Sitemap {
	return &Sitemap{reader: reader, baseURL: baseURL}
}

// staticPages returns the fixed marketing routes.
func (s *Sitemap) staticPages() []sitemapURL {
	return []sitemapURL{
		{Loc: s.baseURL + "/", LastMod: "2025-10-27", ChangeFreq: "weekly", Priority: "1.0"},
		{Loc: s.baseURL + "/blog", LastMod: "2025-10-27", ChangeFreq: "daily", Priority: "0.9"},
		{Loc: s.baseURL + "/privacy", LastMod: "2025-10-05", ChangeFreq: "monthly", Priority: "0.3"},
		{Loc: s.baseURL + "/terms", LastMod: "2025-10-05", ChangeFreq: "monthly", Priority: "0.3"},
	}
}

// Serve handles GET /sitemap.xml. Post entries carry today's date rather
// than their publishedAt so crawlers revisit every post after a metadata
// change. A store failure degrades to the static routes alone; the
// endpoint never errors.
func (s *Sitemap) Serve(w http.ResponseWriter, r *http.Request) {
	pages := s.staticPages()

	posts, err := s.reader.AllPublished(r.Context())
	if err != nil {
		slog.Error("list posts for sitemap failed", "error", err)
	} else {
		today := time.Now().UTC().Format("2006-01-02")
		for _, post := range posts {
			pages = append(pages, sitemapURL{
				Loc:        s.baseURL + "/blog/" + post.Slug,
				LastMod:    today,
				ChangeFreq: "monthly",
				Priority:   "0.7",
			})
		}
	}

	out, err := xml.MarshalIndent(urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  pages,
	}, "", "  ")
	if err != nil {
		slog.Error("marshal sitemap failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", sitemapCacheControl)
	w.Write([]byte(xml.Header))
	w.Write(out)
}
