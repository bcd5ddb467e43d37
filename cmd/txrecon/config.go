// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/txrecon/pkg/types"
)

// workspaceFromFlags assembles the per-context Workspace from the
// persistent directory flags.
func workspaceFromFlags(cmd *cobra.Command) types.Workspace {
	outputDir, _ := cmd.Flags().GetString("output-dir")
	cacheDir, _ := cmd.Flags().GetString("cache-dir")
	return types.Workspace{OutputDir: outputDir, CacheDir: cacheDir}
}

// toolConfig resolves the abundance column layout for tool: a tools section
// in txrecon.yaml wins over the built-in defaults.
func toolConfig(tool types.Tool) (types.ToolConfig, error) {
	if viper.IsSet("tools." + string(tool)) {
		var cfg types.ToolConfig
		if err := viper.UnmarshalKey("tools."+string(tool), &cfg); err != nil {
			return types.ToolConfig{}, fmt.Errorf("reading tools.%s config: %w", tool, err)
		}
		return cfg, nil
	}
	cfg, ok := types.DefaultToolConfig(tool)
	if !ok {
		return types.ToolConfig{}, fmt.Errorf("unknown quantification tool %q: configure it under tools.%s", tool, tool)
	}
	return cfg, nil
}

// ensureParentDir creates the directory an output file will be written to.
func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}
