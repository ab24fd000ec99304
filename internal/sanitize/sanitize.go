// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package sanitize strips dangerous markup from ingested post HTML.
// Webhook payloads arrive from an external content system over the
// network; whatever lands in the content field is later served verbatim
// to browsers, so scripts and event handlers must not survive ingestion.
package sanitize

import "github.com/microcosm-cc/bluemonday"

// policy allows the formatting tags a blog article legitimately uses,
// plus images and links with safe URL schemes.
var policy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("pre", "code", "span", "div")
	p.RequireNoFollowOnLinks(false)
	return p
}()

// HTML returns the sanitized form of the given post HTML.
func HTML(s string) string {
	return policy.Sanitize(s)
}
