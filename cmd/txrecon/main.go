// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the txrecon CLI.
// See docs/ARCHITECTURE § Pipeline Interface.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the txrecon CLI.
var rootCmd = &cobra.Command{
	Use:   "txrecon",
	Short: "Reconcile transcript quantification with gene-level annotation",
	Long: `txrecon treats annotated genes and intergenic background regions as
uniform quantification units. It builds combined tx2gene mapping tables,
repairs identifier collisions caused by version stripping, drives the
external abundance aggregator, and recomputes TPM when background regions
are excluded after the fact.

Each pipeline stage is a subcommand: mapping, aggregate, exclude, and
releases.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./txrecon.yaml or ~/.config/txrecon/config.yaml)")
	rootCmd.PersistentFlags().String("output-dir", "output", "per-context directory for run artifacts")
	rootCmd.PersistentFlags().String("cache-dir", "cache", "directory for mapping tables and transcript databases")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("txrecon")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "txrecon"))
		}
	}

	viper.SetEnvPrefix("TXRECON")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
