// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/txrecon/internal/releases"
	"github.com/pdiddy/txrecon/pkg/types"
)

var releasesCmd = &cobra.Command{
	Use:   "releases",
	Short: "List reference releases and fetch their artifacts",
	Long: `Releases fetches the remote release descriptor, filters out releases
this txrecon version is too old for, and caches the result as a YAML
manifest. Use the fetch subcommand to download a release's FASTA.`,
	RunE: runReleasesList,
}

func releaseConfig() types.ReleaseConfig {
	cfg := types.ReleaseConfig{
		DescriptorURL:  viper.GetString("releases.descriptor_url"),
		MinimumVersion: viper.GetString("releases.minimum_version"),
	}
	cfg.Timeout = viper.GetDuration("releases.timeout")
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	cfg.UserAgent = "txrecon/" + version
	if cfg.MinimumVersion == "" {
		cfg.MinimumVersion = version
	}
	return cfg
}

func runReleasesList(cmd *cobra.Command, args []string) error {
	cfg := releaseConfig()
	if cfg.DescriptorURL == "" {
		return fmt.Errorf("releases.descriptor_url is not configured")
	}

	client := &http.Client{Timeout: cfg.Timeout}
	rels, err := releases.List(context.Background(), client, cfg)
	if err != nil {
		return err
	}

	ws := workspaceFromFlags(cmd)
	if err := os.MkdirAll(ws.CacheDir, 0o755); err == nil {
		manifest := filepath.Join(ws.CacheDir, "releases.yaml")
		if err := releases.WriteManifest(manifest, rels); err != nil {
			fmt.Fprintf(os.Stderr, "warning: release manifest write failed: %v\n", err)
		}
	}

	if len(rels) == 0 {
		fmt.Println("No compatible releases found.")
		return nil
	}

	fmt.Printf("%-16s  %-12s  %-10s  %s\n", "Release", "Date", "MinVersion", "Description")
	for _, r := range rels {
		fmt.Printf("%-16s  %-12s  %-10s  %s\n", r.Release, r.ReleaseDate, r.MinimumVersion, r.Description)
		if r.Message != "" {
			fmt.Printf("  note: %s\n", r.Message)
		}
	}
	return nil
}

// --- fetch subcommand ---

var releasesFetchCmd = &cobra.Command{
	Use:   "fetch [release]",
	Short: "Download a release's FASTA into the cache directory",
	RunE:  runReleasesFetch,
}

func runReleasesFetch(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("exactly one release label is required")
	}
	label := args[0]

	cfg := releaseConfig()
	if cfg.DescriptorURL == "" {
		return fmt.Errorf("releases.descriptor_url is not configured")
	}

	client := &http.Client{Timeout: cfg.Timeout}
	rels, err := releases.List(context.Background(), client, cfg)
	if err != nil {
		return err
	}

	for _, r := range rels {
		if r.Release != label {
			continue
		}
		ws := workspaceFromFlags(cmd)
		if err := os.MkdirAll(ws.CacheDir, 0o755); err != nil {
			return fmt.Errorf("creating cache directory %s: %w", ws.CacheDir, err)
		}
		dest := filepath.Join(ws.CacheDir, path.Base(r.FastaURL))
		// Downloads run without a client timeout; FASTA files are large.
		if err := releases.Download(context.Background(), &http.Client{}, r.FastaURL, dest, cfg); err != nil {
			return err
		}
		fmt.Printf("%s: downloaded %s\n", label, dest)
		return nil
	}
	return fmt.Errorf("release %q not found or not compatible with txrecon %s", label, cfg.MinimumVersion)
}

func init() {
	releasesCmd.AddCommand(releasesFetchCmd)
	rootCmd.AddCommand(releasesCmd)
}
