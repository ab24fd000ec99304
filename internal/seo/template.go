// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// template.go abstracts where the shared blog HTML templates come from:
// a static hosting origin in production, or the templates embedded in the
// binary when no origin is configured.
package seo

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"
)

// Template names the two shared blog templates.
const (
	TemplatePost    = "blog-post.html"
	TemplateListing = "blog.html"
)

// TemplateSource fetches a shared blog template by name.
type TemplateSource interface {
	Fetch(ctx context.Context, name string) (string, error)
}

// OriginSource fetches templates over HTTP from a static hosting origin.
type OriginSource struct {
	origin string
	client *http.Client
}

// NewOriginSource creates a TemplateSource fetching from the given origin,
// e.g. "https://static.pulsewise.app".
func NewOriginSource(origin string) *OriginSource {
	return &OriginSource{
		origin: strings.TrimRight(origin, "/"),
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch retrieves /name from the origin.
func (s *OriginSource) Fetch(ctx context.Context, name string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.origin+"/"+name, nil)
	if err != nil {
		return "", fmt.Errorf("build template request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch template %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch template %s: status %d", name, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read template %s: %w", name, err)
	}
	return string(body), nil
}

// FSSource serves templates from a file system, typically the embedded
// web/templates tree.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource creates a TemplateSource over the given file system.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// Fetch reads the named template from the file system.
func (s *FSSource) Fetch(_ context.Context, name string) (string, error) {
	body, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return "", fmt.Errorf("read embedded template %s: %w", name, err)
	}
	return string(body), nil
}
