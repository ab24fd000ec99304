// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pulsewise/internal/models"
)

// PostStore is the mongo-driver backed Store implementation.
type PostStore struct {
	coll *mongo.Collection
}

// NewPostStore creates a PostStore over the given collection.
func NewPostStore(coll *mongo.Collection) *PostStore {
	return &PostStore{coll: coll}
}

// FindBySlug returns the published post with the given slug. Returns
// (nil, nil) when no published document matches.
func (s *PostStore) FindBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	err := s.coll.FindOne(ctx, bson.M{"slug": slug, "published": true}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return &post, nil
}

// List returns published posts ordered by publishedAt descending, applying
// the tag and category filters from opts. The limit is clamped by the caller
// through ListOptions.Clamp; callers that over-fetch (the exclude-slug case)
// pass the raised limit explicitly.
func (s *PostStore) List(ctx context.Context, opts ListOptions) ([]models.BlogPost, error) {
	filter := bson.M{"published": true}
	if opts.Tag != "" {
		// Equality against an array field matches documents whose tags
		// array contains the value.
		filter["tags"] = opts.Tag
	}
	if opts.Category != "" {
		filter["category"] = opts.Category
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "publishedAt", Value: -1}}).
		SetLimit(int64(opts.Clamp()))

	cursor, err := s.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer cursor.Close(ctx)

	var posts []models.BlogPost
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}

// AllPublished returns every published post ordered by publishedAt
// descending. No limit applies; the sitemap needs the whole set.
func (s *PostStore) AllPublished(ctx context.Context) ([]models.BlogPost, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "publishedAt", Value: -1}})

	cursor, err := s.coll.Find(ctx, bson.M{"published": true}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("list all published posts: %w", err)
	}
	defer cursor.Close(ctx)

	var posts []models.BlogPost
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}

// Upsert writes the post keyed by its slug. An existing document is
// overwritten field by field except createdAt, which keeps its original
// value. Returns the document ID (hex) and whether it was newly created.
func (s *PostStore) Upsert(ctx context.Context, post *models.BlogPost) (string, bool, error) {
	var existing models.BlogPost
	err := s.coll.FindOne(ctx, bson.M{"slug": post.Slug}).Decode(&existing)
	if err != nil && err != mongo.ErrNoDocuments {
		return "", false, fmt.Errorf("lookup existing post: %w", err)
	}

	now := time.Now().UTC()
	post.UpdatedAt = now

	if err == mongo.ErrNoDocuments {
		post.CreatedAt = now
		res, err := s.coll.InsertOne(ctx, post)
		if err != nil {
			return "", false, fmt.Errorf("insert post: %w", err)
		}
		post.ID = res.InsertedID.(primitive.ObjectID)
		return post.ID.Hex(), true, nil
	}

	post.ID = existing.ID
	post.CreatedAt = existing.CreatedAt
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": existing.ID}, post); err != nil {
		return "", false, fmt.Errorf("update post: %w", err)
	}
	return existing.ID.Hex(), false, nil
}
