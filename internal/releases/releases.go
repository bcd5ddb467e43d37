// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package releases lists published reference releases and downloads their
// artifacts. It fetches a tab-separated release descriptor from a network
// location and filters out releases this package version is too old for.
package releases

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/txrecon/internal/httputil"
	"github.com/pdiddy/txrecon/pkg/types"
)

// descriptorColumns is the expected header of the release descriptor.
var descriptorColumns = []string{
	"release", "release_date", "access_url", "fasta_url",
	"minimum_version", "description", "message",
}

// List fetches the release descriptor and returns the releases whose
// minimum supported version is satisfied by cfg.MinimumVersion.
func List(ctx context.Context, client *http.Client, cfg types.ReleaseConfig) ([]types.Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.DescriptorURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating descriptor request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("fetching release descriptor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching release descriptor: HTTP %d from %s", resp.StatusCode, cfg.DescriptorURL)
	}

	all, err := ParseDescriptor(resp.Body)
	if err != nil {
		return nil, err
	}

	var rels []types.Release
	for _, r := range all {
		if CompareVersions(r.MinimumVersion, cfg.MinimumVersion) <= 0 {
			rels = append(rels, r)
		}
	}
	return rels, nil
}

// ParseDescriptor reads the tab-separated release descriptor from r.
func ParseDescriptor(r io.Reader) ([]types.Release, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing release descriptor: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("release descriptor: empty")
	}

	idx := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		idx[name] = i
	}
	for _, name := range descriptorColumns {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("release descriptor: column %q not found", name)
		}
	}

	rels := make([]types.Release, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rels = append(rels, types.Release{
			Release:        row[idx["release"]],
			ReleaseDate:    row[idx["release_date"]],
			AccessURL:      row[idx["access_url"]],
			FastaURL:       row[idx["fasta_url"]],
			MinimumVersion: row[idx["minimum_version"]],
			Description:    row[idx["description"]],
			Message:        row[idx["message"]],
		})
	}
	return rels, nil
}

// Download fetches a release artifact to destPath.
func Download(ctx context.Context, client *http.Client, url, destPath string, cfg types.ReleaseConfig) error {
	if err := httputil.DownloadFile(ctx, client, url, destPath, cfg.UserAgent); err != nil {
		return fmt.Errorf("downloading %s: %w", url, err)
	}
	return nil
}

// WriteManifest caches the release list as YAML at path.
func WriteManifest(path string, rels []types.Release) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating release manifest %s: %w", path, err)
	}

	enc := yaml.NewEncoder(f)
	if err := enc.Encode(rels); err != nil {
		enc.Close()
		f.Close()
		return fmt.Errorf("writing release manifest %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("writing release manifest %s: %w", path, err)
	}
	return f.Close()
}

// ReadManifest loads a cached release manifest.
func ReadManifest(path string) ([]types.Release, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading release manifest %s: %w", path, err)
	}
	var rels []types.Release
	if err := yaml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("parsing release manifest %s: %w", path, err)
	}
	return rels, nil
}
