// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package seo

import (
	"strings"
	"testing"
	"time"

	"pulsewise/internal/models"
)

// testSite is a fixed site identity shared by the injector tests.
var testSite = Site{
	Name:          "Pulsewise",
	BaseURL:       "https://www.pulsewise.app",
	DefaultImage:  "https://www.pulsewise.app/assets/images/social-preview.png",
	PublisherLogo: "https://www.pulsewise.app/assets/icons/logo.svg",
}

// testTemplate mirrors the shared blog-post template head as shipped,
// including attribute orderings the patterns must tolerate.
const testTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Blog Post - Pulsewise</title>
<meta name="description" content="Placeholder description">
<link href="https://www.pulsewise.app/blog" rel="canonical">
<meta property="og:title" content="Placeholder">
<meta property="og:description" content="Placeholder">
<meta property="og:url" content="https://www.pulsewise.app/blog">
<meta property="og:image" content="https://www.pulsewise.app/placeholder.png">
<meta content="Placeholder" name="twitter:title">
<meta name="twitter:description" content="Placeholder">
<meta name="twitter:image" content="https://www.pulsewise.app/placeholder.png">
</head>
<body><div id="app"></div></body>
</html>`

func testPost() *models.BlogPost {
	published := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	image := "https://cdn.pulsewise.app/posts/hello.png"
	return &models.BlogPost{
		Title:         "Hello World",
		Slug:          "hello-world",
		Excerpt:       "A short greeting.",
		Content:       "<p>Hello out there.</p>",
		FeaturedImage: &image,
		Author:        models.Author{Name: "Ada"},
		Published:     true,
		PublishedAt:   &published,
		SEOTitle:      "Hello World — A Greeting",
		SEODesc:       "The canonical greeting, explained.",
	}
}

func TestInject_RewritesAllTags(t *testing.T) {
	inj := New(testSite)
	got := inj.Inject(testTemplate, testPost())

	wantFragments := []string{
		`<title id="page-title">Hello World — A Greeting - Pulsewise</title>`,
		`<meta name="description" id="page-description" content="The canonical greeting, explained.">`,
		`<link rel="canonical" id="canonical-url" href="https://www.pulsewise.app/blog/hello-world">`,
		`<meta property="og:title" id="og-title" content="Hello World — A Greeting">`,
		`<meta property="og:description" id="og-description" content="The canonical greeting, explained.">`,
		`<meta property="og:url" id="og-url" content="https://www.pulsewise.app/blog/hello-world">`,
		`<meta property="og:image" id="og-image" content="https://cdn.pulsewise.app/posts/hello.png">`,
		`<meta name="twitter:title" id="twitter-title" content="Hello World — A Greeting">`,
		`<meta name="twitter:description" id="twitter-description" content="The canonical greeting, explained.">`,
		`<meta name="twitter:image" id="twitter-image" content="https://cdn.pulsewise.app/posts/hello.png">`,
	}

	for _, frag := range wantFragments {
		if !strings.Contains(got, frag) {
			t.Errorf("output missing fragment:\n%s", frag)
		}
	}

	// None of the placeholder values should survive.
	if strings.Contains(got, "Placeholder") {
		t.Error("placeholder metadata survived injection")
	}
}

// TestInject_AttributeOrder verifies the patterns match tags whose
// identifying attribute is not in first position (the twitter:title tag in
// the template has content before name).
func TestInject_AttributeOrder(t *testing.T) {
	inj := New(testSite)
	got := inj.Inject(testTemplate, testPost())

	if strings.Contains(got, `<meta content="Placeholder" name="twitter:title">`) {
		t.Error("twitter:title with reordered attributes was not rewritten")
	}
	// Same for the canonical link with href before rel.
	if strings.Contains(got, `<link href="https://www.pulsewise.app/blog" rel="canonical">`) {
		t.Error("canonical link with reordered attributes was not rewritten")
	}
}

// TestInject_Idempotent verifies running the injector on its own output
// produces no further changes. The id attributes in the canonical forms
// make second-pass matches exact.
func TestInject_Idempotent(t *testing.T) {
	inj := New(testSite)
	post := testPost()

	once := inj.Inject(testTemplate, post)
	twice := inj.Inject(once, post)

	if once != twice {
		t.Error("second injection pass changed the output")
	}

	// In particular the JSON-LD block must not stack.
	if strings.Count(twice, `application/ld+json`) != 1 {
		t.Errorf("expected exactly one JSON-LD block, found %d",
			strings.Count(twice, `application/ld+json`))
	}
}

func TestInject_JSONLD(t *testing.T) {
	inj := New(testSite)
	got := inj.Inject(testTemplate, testPost())

	wantFragments := []string{
		`"@type": "Article"`,
		`"headline": "Hello World — A Greeting"`,
		`"description": "The canonical greeting, explained."`,
		`"image": "https://cdn.pulsewise.app/posts/hello.png"`,
		`"url": "https://www.pulsewise.app/blog/hello-world"`,
		`"datePublished": "2026-03-01T10:00:00Z"`,
		`"dateModified": "2026-03-01T10:00:00Z"`,
		`"name": "Ada"`,
		`"name": "Pulsewise"`,
		`"url": "https://www.pulsewise.app/assets/icons/logo.svg"`,
	}

	for _, frag := range wantFragments {
		if !strings.Contains(got, frag) {
			t.Errorf("JSON-LD missing fragment: %s", frag)
		}
	}

	// The block must land inside the head.
	head := got[:strings.Index(got, "</head>")]
	if !strings.Contains(head, `application/ld+json`) {
		t.Error("JSON-LD block was not injected before </head>")
	}
}

// TestInject_Fallbacks verifies default image, default author, and the
// title/description fallback chains.
func TestInject_Fallbacks(t *testing.T) {
	inj := New(testSite)
	post := &models.BlogPost{
		Title:   "Plain Post",
		Slug:    "plain-post",
		Excerpt: "Just an excerpt.",
	}

	got := inj.Inject(testTemplate, post)

	if !strings.Contains(got, `<title id="page-title">Plain Post - Pulsewise</title>`) {
		t.Error("title should fall back to post title when seoTitle is empty")
	}
	if !strings.Contains(got, `id="page-description" content="Just an excerpt."`) {
		t.Error("description should fall back to excerpt when seoDescription is empty")
	}
	if !strings.Contains(got, `id="og-image" content="`+testSite.DefaultImage+`"`) {
		t.Error("og:image should fall back to the site default image")
	}
	if !strings.Contains(got, `"name": "`+models.DefaultAuthorName+`"`) {
		t.Error("JSON-LD author should fall back to the default author name")
	}
}

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "plain", input: "hello", want: "hello"},
		{name: "ampersand", input: "salt & pepper", want: "salt &amp; pepper"},
		{name: "angle brackets", input: "<script>", want: "&lt;script&gt;"},
		{name: "double quote", input: `say "hi"`, want: "say &quot;hi&quot;"},
		{name: "single quote", input: "it's", want: "it&#x27;s"},
		{name: "all at once", input: `<a href="x">&'`, want: "&lt;a href=&quot;x&quot;&gt;&amp;&#x27;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeHTML(tt.input); got != tt.want {
				t.Errorf("EscapeHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEscapeJSONLD(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "backslash", input: `a\b`, want: `a\\b`},
		{name: "double quote", input: `say "hi"`, want: `say \"hi\"`},
		{name: "newline", input: "a\nb", want: `a\nb`},
		{name: "carriage return", input: "a\rb", want: `a\rb`},
		{name: "tab", input: "a\tb", want: `a\tb`},
		// Angle brackets stay literal — this escaper is for script
		// blocks only.
		{name: "angle brackets untouched", input: "<em>", want: "<em>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeJSONLD(tt.input); got != tt.want {
				t.Errorf("EscapeJSONLD(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestInject_EscapesMetadata verifies post fields are HTML-escaped in tag
// context but JSON-escaped in the structured-data block.
func TestInject_EscapesMetadata(t *testing.T) {
	inj := New(testSite)
	post := &models.BlogPost{
		Title:   `Ben & Jerry's "Guide" <2026>`,
		Slug:    "escaping",
		Excerpt: "Line one\nLine two",
	}

	got := inj.Inject(testTemplate, post)

	if !strings.Contains(got, `Ben &amp; Jerry&#x27;s &quot;Guide&quot; &lt;2026&gt; - Pulsewise`) {
		t.Error("title was not HTML-escaped")
	}
	if !strings.Contains(got, `"headline": "Ben & Jerry's \"Guide\" <2026>"`) {
		t.Error("JSON-LD headline was not JSON-escaped")
	}
	if !strings.Contains(got, `"description": "Line one\nLine two"`) {
		t.Error("JSON-LD description newline was not escaped")
	}
}
