// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package seo rewrites the SEO-relevant tags of a blog post HTML template
// so crawlers see per-post metadata without running any client-side code.
//
// Each rewrite targets a tag by its name or property attribute regardless
// of attribute order and replaces the whole tag with a canonical form
// carrying a fixed id attribute. Because the canonical forms match their
// own patterns, running the injector on its own output is a no-op.
package seo

import (
	"regexp"
	"strings"
	"time"

	"pulsewise/internal/models"
)

// Site holds the fixed site identity stamped into every injected page.
type Site struct {
	Name          string // appended to every <title>
	BaseURL       string // canonical URL base, no trailing slash
	DefaultImage  string // og:image fallback when a post has none
	PublisherLogo string // logo URL in the JSON-LD publisher block
}

// Injector performs the ordered tag rewrites for one site.
type Injector struct {
	site Site
}

// New creates an Injector for the given site identity.
func New(site Site) *Injector {
	return &Injector{site: site}
}

// Tag patterns. Attribute order never matters: each pattern anchors on the
// identifying name/property value anywhere inside the tag.
var (
	titleRe    = regexp.MustCompile(`(?is)<title[^>]*>.*?</title>`)
	metaDescRe = regexp.MustCompile(`(?i)<meta[^>]*\bname="description"[^>]*>`)
	canonicalRe = regexp.MustCompile(`(?i)<link[^>]*\brel="canonical"[^>]*>`)

	ogTitleRe = regexp.MustCompile(`(?i)<meta[^>]*\bproperty="og:title"[^>]*>`)
	ogDescRe  = regexp.MustCompile(`(?i)<meta[^>]*\bproperty="og:description"[^>]*>`)
	ogURLRe   = regexp.MustCompile(`(?i)<meta[^>]*\bproperty="og:url"[^>]*>`)
	ogImageRe = regexp.MustCompile(`(?i)<meta[^>]*\bproperty="og:image"[^>]*>`)

	twitterTitleRe = regexp.MustCompile(`(?i)<meta[^>]*\bname="twitter:title"[^>]*>`)
	twitterDescRe  = regexp.MustCompile(`(?i)<meta[^>]*\bname="twitter:description"[^>]*>`)
	twitterImageRe = regexp.MustCompile(`(?i)<meta[^>]*\bname="twitter:image"[^>]*>`)

	// jsonLdRe matches a previously injected structured-data block so a
	// second pass replaces it instead of stacking another one.
	jsonLdRe = regexp.MustCompile(`(?is)<script type="application/ld\+json" id="article-structured-data">.*?</script>`)

	headCloseRe = regexp.MustCompile(`(?i)</head>`)
)

// CanonicalURL returns the canonical URL for a post slug.
func (inj *Injector) CanonicalURL(slug string) string {
	return inj.site.BaseURL + "/blog/" + slug
}

// OGImage returns the post's featured image or the site fallback.
func (inj *Injector) OGImage(post *models.BlogPost) string {
	if post.FeaturedImage != nil && *post.FeaturedImage != "" {
		return *post.FeaturedImage
	}
	return inj.site.DefaultImage
}

// Inject rewrites all SEO tags in html for the given post and returns the
// result. The input is the shared blog post template; the output is what
// crawlers index for this slug.
func (inj *Injector) Inject(html string, post *models.BlogPost) string {
	canonicalURL := inj.CanonicalURL(post.Slug)
	title := EscapeHTML(post.DisplayTitle())
	description := EscapeHTML(post.DisplayDescription())
	ogImage := EscapeHTML(inj.OGImage(post))
	escapedURL := EscapeHTML(canonicalURL)

	html = titleRe.ReplaceAllLiteralString(html,
		`<title id="page-title">`+title+` - `+inj.site.Name+`</title>`)

	html = metaDescRe.ReplaceAllLiteralString(html,
		`<meta name="description" id="page-description" content="`+description+`">`)

	html = canonicalRe.ReplaceAllLiteralString(html,
		`<link rel="canonical" id="canonical-url" href="`+escapedURL+`">`)

	html = ogTitleRe.ReplaceAllLiteralString(html,
		`<meta property="og:title" id="og-title" content="`+title+`">`)
	html = ogDescRe.ReplaceAllLiteralString(html,
		`<meta property="og:description" id="og-description" content="`+description+`">`)
	html = ogURLRe.ReplaceAllLiteralString(html,
		`<meta property="og:url" id="og-url" content="`+escapedURL+`">`)
	html = ogImageRe.ReplaceAllLiteralString(html,
		`<meta property="og:image" id="og-image" content="`+ogImage+`">`)

	html = twitterTitleRe.ReplaceAllLiteralString(html,
		`<meta name="twitter:title" id="twitter-title" content="`+title+`">`)
	html = twitterDescRe.ReplaceAllLiteralString(html,
		`<meta name="twitter:description" id="twitter-description" content="`+description+`">`)
	html = twitterImageRe.ReplaceAllLiteralString(html,
		`<meta name="twitter:image" id="twitter-image" content="`+ogImage+`">`)

	jsonLd := inj.articleJSONLD(post, canonicalURL)
	if jsonLdRe.MatchString(html) {
		html = jsonLdRe.ReplaceAllLiteralString(html, jsonLd)
	} else {
		html = headCloseRe.ReplaceAllLiteralString(html, jsonLd+"\n</head>")
	}

	return html
}

// articleJSONLD builds the Article structured-data block. Values use
// JSON string escaping, not HTML escaping: inside a script block angle
// brackets are fine, but quotes and control characters are not.
func (inj *Injector) articleJSONLD(post *models.BlogPost, canonicalURL string) string {
	title := EscapeJSONLD(post.DisplayTitle())
	description := EscapeJSONLD(post.DisplayDescription())
	image := EscapeJSONLD(inj.OGImage(post))
	author := EscapeJSONLD(post.AuthorName())

	datePublished := time.Now().UTC().Format(time.RFC3339)
	if post.PublishedAt != nil {
		datePublished = post.PublishedAt.UTC().Format(time.RFC3339)
	}

	var b strings.Builder
	b.WriteString(`<script type="application/ld+json" id="article-structured-data">
{
  "@context": "https://schema.org",
  "@type": "Article",
  "headline": "` + title + `",
  "description": "` + description + `",
  "image": "` + image + `",
  "url": "` + EscapeJSONLD(canonicalURL) + `",
  "datePublished": "` + datePublished + `",
  "dateModified": "` + datePublished + `",
  "author": {
    "@type": "Person",
    "name": "` + author + `"
  },
  "publisher": {
    "@type": "Organization",
    "name": "` + EscapeJSONLD(inj.site.Name) + `",
    "logo": {
      "@type": "ImageObject",
      "url": "` + EscapeJSONLD(inj.site.PublisherLogo) + `"
    }
  },
  "mainEntityOfPage": {
    "@type": "WebPage",
    "@id": "` + EscapeJSONLD(canonicalURL) + `"
  }
}
</script>`)
	return b.String()
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

// EscapeHTML escapes the five HTML-special characters for use in tag text
// and attribute values.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

var jsonLdEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// EscapeJSONLD escapes a string for embedding in a JSON-LD value. Angle
// brackets stay literal — acceptable inside a script block, so this must
// never be reused for HTML contexts.
func EscapeJSONLD(s string) string {
	return jsonLdEscaper.Replace(s)
}
