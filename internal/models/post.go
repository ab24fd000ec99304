// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultAuthorName is used when the ingestion payload carries no author.
const DefaultAuthorName = "Pulsewise Team"

// Author identifies who wrote a blog post. Avatar is a URL and may be nil.
type Author struct {
	Name   string  `bson:"name" json:"name"`
	Avatar *string `bson:"avatar" json:"avatar"`
}

// BlogPost is a single document in the blog posts collection. Slug is the
// natural key: the webhook upserts by slug, so at most one document exists
// per slug (enforced by a unique index, see database.EnsureIndexes).
//
// Posts are created and updated only through the ingestion webhook; every
// other component reads them.
type BlogPost struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Slug          string             `bson:"slug" json:"slug"`
	Excerpt       string             `bson:"excerpt" json:"excerpt"`
	Content       string             `bson:"content" json:"content"`
	Markdown      string             `bson:"markdown,omitempty" json:"markdown,omitempty"`
	FeaturedImage *string            `bson:"featuredImage" json:"featuredImage"`
	Author        Author             `bson:"author" json:"author"`
	Tags          []string           `bson:"tags" json:"tags"`
	Category      *string            `bson:"category" json:"category"`
	Published     bool               `bson:"published" json:"published"`
	PublishedAt   *time.Time         `bson:"publishedAt" json:"publishedAt"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
	SEOTitle      string             `bson:"seoTitle" json:"seoTitle"`
	SEODesc       string             `bson:"seoDescription" json:"seoDescription"`
	ReadingTime   int                `bson:"readingTime" json:"readingTime"`

	// Optional passthrough fields from the source system.
	MetaKeywords string `bson:"metaKeywords,omitempty" json:"metaKeywords,omitempty"`
	Outline      string `bson:"outline,omitempty" json:"outline,omitempty"`
}

// DisplayTitle returns the SEO title when set, falling back to the title.
func (p *BlogPost) DisplayTitle() string {
	if p.SEOTitle != "" {
		return p.SEOTitle
	}
	return p.Title
}

// DisplayDescription returns the SEO description, falling back to the excerpt.
func (p *BlogPost) DisplayDescription() string {
	if p.SEODesc != "" {
		return p.SEODesc
	}
	return p.Excerpt
}

// AuthorName returns the author name or the default when unset.
func (p *BlogPost) AuthorName() string {
	if p.Author.Name != "" {
		return p.Author.Name
	}
	return DefaultAuthorName
}
