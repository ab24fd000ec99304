// Package database handles MongoDB connection management for the blog post
// collection. It provides a Connect function that returns a verified client
// and an EnsureIndexes function that enforces the slug natural key.
package database

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostCollection is the name of the blog post collection.
const PostCollection = "blogPosts"

// Connect opens a MongoDB client for the given URI and verifies the
// connection with a ping. tlsKey, when non-empty, is a PEM client key
// used for certificate authentication against the managed cluster.
func Connect(ctx context.Context, uri, tlsKey string) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(uri)

	if tlsKey != "" {
		cert, err := tls.X509KeyPair([]byte(tlsKey), []byte(tlsKey))
		if err != nil {
			return nil, fmt.Errorf("parse tls client key: %w", err)
		}
		opts.SetTLSConfig(&tls.Config{Certificates: []tls.Certificate{cert}})
	}

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	slog.Info("mongodb connected")
	return client, nil
}

// Disconnect closes the client with a bounded timeout.
func Disconnect(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		slog.Warn("mongodb disconnect failed", "error", err)
	}
}

// EnsureIndexes creates the indexes the application relies on. The unique
// slug index backs the upsert-by-slug invariant: at most one document per
// slug. Creation is idempotent, so this runs at every startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(PostCollection)

	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Serves the published listing ordered by recency.
			Keys: bson.D{{Key: "published", Value: 1}, {Key: "publishedAt", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}

	slog.Info("mongodb indexes ensured", "collection", PostCollection)
	return nil
}
