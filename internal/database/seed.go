package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"pulsewise/internal/models"
)

// Seed populates the blog collection with initial development data.
// It inserts one sample published post if the collection is empty, so
// the read API and the metadata injector have something to serve locally.
func Seed(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(PostCollection)

	count, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("seed count posts: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	now := time.Now().UTC()
	post := models.BlogPost{
		Title:       "Welcome to the Pulsewise Blog",
		Slug:        "welcome-to-the-pulsewise-blog",
		Excerpt:     "A first look at what we are building and why.",
		Content:     "<p>A first look at what we are building and why. More soon.</p>",
		Author:      models.Author{Name: models.DefaultAuthorName},
		Tags:        []string{"announcements"},
		Published:   true,
		PublishedAt: &now,
		CreatedAt:   now,
		UpdatedAt:   now,
		SEOTitle:    "Welcome to the Pulsewise Blog",
		SEODesc:     "A first look at what we are building and why.",
		ReadingTime: 1,
	}

	if _, err := coll.InsertOne(ctx, &post); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("seed insert post: %w", err)
	}

	slog.Info("database seeded with sample post", "slug", post.Slug)
	return nil
}
