// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package textutil provides the text derivation helpers shared by the
// ingestion webhook and the API client: HTML stripping, excerpt and
// meta-description truncation, reading time estimation, and date
// formatting for display.
package textutil

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// ExcerptLength is the maximum length of a derived excerpt.
	ExcerptLength = 200

	// MetaDescriptionLength is the maximum length of a derived SEO description.
	MetaDescriptionLength = 160

	// wordsPerMinute is the assumed average reading speed.
	wordsPerMinute = 200
)

// htmlTag matches a single HTML tag, opening or closing.
var htmlTag = regexp.MustCompile(`<[^>]*>`)

// StripTags removes all HTML tags from the given string. The remaining
// text is not entity-decoded; callers that need entity handling should do
// it themselves.
func StripTags(s string) string {
	return htmlTag.ReplaceAllString(s, "")
}

// Truncate cuts s to at most n characters without appending anything.
// Cuts happen on rune boundaries so multibyte text never yields invalid
// UTF-8.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// Excerpt derives a short preview from HTML content: tags are stripped and
// the text is truncated to ExcerptLength characters with a trailing ellipsis.
func Excerpt(content string) string {
	return Truncate(StripTags(content), ExcerptLength) + "..."
}

// MetaDescription derives an SEO description from HTML content, truncated
// to MetaDescriptionLength characters. No ellipsis is appended — search
// engines add their own.
func MetaDescription(content string) string {
	return Truncate(StripTags(content), MetaDescriptionLength)
}

// ReadingTime estimates reading time in whole minutes for HTML content,
// assuming 200 words per minute. Any nonzero word count yields at least 1.
func ReadingTime(content string) int {
	words := strings.Fields(StripTags(content))
	if len(words) == 0 {
		return 0
	}
	return (len(words) + wordsPerMinute - 1) / wordsPerMinute
}

// FormatDate renders a time as a readable absolute date, e.g. "March 4, 2026".
// A nil time renders as "Draft", matching how unpublished posts display.
func FormatDate(t *time.Time) string {
	if t == nil {
		return "Draft"
	}
	return t.Format("January 2, 2006")
}

// FormatRelativeDate renders a time relative to now, e.g. "2 days ago".
func FormatRelativeDate(t *time.Time) string {
	if t == nil {
		return "Draft"
	}

	days := int(time.Since(*t).Hours() / 24)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return plural(days/7, "week")
	case days < 365:
		return plural(days/30, "month")
	default:
		return plural(days/365, "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
