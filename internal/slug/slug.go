// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from post titles.
package slug

import (
	"regexp"
	"strings"
)

// nonAlphanumeric matches runs of anything that isn't a lowercase letter
// or digit. Each run collapses to a single hyphen.
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World!" → "hello-world"
func Generate(s string) string {
	result := strings.ToLower(s)
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}
