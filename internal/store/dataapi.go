// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// dataapi.go implements the Reader interface over the document store's
// HTTP query protocol. Restricted runtimes ship no native driver, so this
// backend speaks plain JSON over HTTPS: POST /action/findOne and
// /action/find with a filter document, authenticated by an API key header.
// Responses use relaxed JSON, so timestamps arrive as ISO-8601 strings and
// decode straight into time.Time fields.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pulsewise/internal/models"
)

// defaultDataSource is the cluster name the query endpoint routes to.
const defaultDataSource = "mongodb-atlas"

// DataAPIStore is the HTTP query-protocol backed Reader implementation.
type DataAPIStore struct {
	baseURL    string
	apiKey     string
	dataSource string
	database   string
	collection string
	client     *http.Client
}

// NewDataAPIStore creates a read-only store speaking the HTTP query
// protocol at baseURL, scoped to one database and collection.
func NewDataAPIStore(baseURL, apiKey, database, collection string) *DataAPIStore {
	return &DataAPIStore{
		baseURL:    baseURL,
		apiKey:     apiKey,
		dataSource: defaultDataSource,
		database:   database,
		collection: collection,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// queryRequest is the request body shape shared by all actions.
type queryRequest struct {
	DataSource string         `json:"dataSource"`
	Database   string         `json:"database"`
	Collection string         `json:"collection"`
	Filter     map[string]any `json:"filter"`
	Sort       map[string]any `json:"sort,omitempty"`
	Limit      int            `json:"limit,omitempty"`
}

// FindBySlug returns the published post with the given slug, or (nil, nil).
func (s *DataAPIStore) FindBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	req := queryRequest{
		Filter: map[string]any{"slug": slug, "published": true},
	}

	var resp struct {
		Document *models.BlogPost `json:"document"`
	}
	if err := s.post(ctx, "findOne", req, &resp); err != nil {
		return nil, err
	}
	return resp.Document, nil
}

// List returns published posts ordered by publishedAt descending.
func (s *DataAPIStore) List(ctx context.Context, opts ListOptions) ([]models.BlogPost, error) {
	filter := map[string]any{"published": true}
	if opts.Tag != "" {
		filter["tags"] = opts.Tag
	}
	if opts.Category != "" {
		filter["category"] = opts.Category
	}

	req := queryRequest{
		Filter: filter,
		Sort:   map[string]any{"publishedAt": -1},
		Limit:  opts.Clamp(),
	}

	var resp struct {
		Documents []models.BlogPost `json:"documents"`
	}
	if err := s.post(ctx, "find", req, &resp); err != nil {
		return nil, err
	}
	return resp.Documents, nil
}

// AllPublished returns every published post ordered by publishedAt
// descending. The query protocol caps a single find, so this pages through
// the collection with a publishedAt cursor until a short batch comes back.
func (s *DataAPIStore) AllPublished(ctx context.Context) ([]models.BlogPost, error) {
	var all []models.BlogPost
	var cursor *time.Time

	for {
		filter := map[string]any{"published": true}
		if cursor != nil {
			filter["publishedAt"] = map[string]any{"$lt": cursor}
		}

		req := queryRequest{
			Filter: filter,
			Sort:   map[string]any{"publishedAt": -1},
			Limit:  MaxLimit,
		}

		var resp struct {
			Documents []models.BlogPost `json:"documents"`
		}
		if err := s.post(ctx, "find", req, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Documents...)

		if len(resp.Documents) < MaxLimit {
			return all, nil
		}
		last := resp.Documents[len(resp.Documents)-1].PublishedAt
		if last == nil {
			// Cannot advance past a document with no publish date.
			return all, nil
		}
		cursor = last
	}
}

// post sends one action request and decodes the response into out.
func (s *DataAPIStore) post(ctx context.Context, action string, req queryRequest, out any) error {
	req.DataSource = s.dataSource
	req.Database = s.database
	req.Collection = s.collection

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", action, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/action/"+action, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", action, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("api-key", s.apiKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s request: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little of the body for the log line; the caller only
		// sees the status.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s query failed: status %d: %s", action, resp.StatusCode, detail)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", action, err)
	}
	return nil
}
