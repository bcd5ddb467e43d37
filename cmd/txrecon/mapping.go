// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/txrecon/internal/mapping"
	"github.com/pdiddy/txrecon/internal/txdb"
	"github.com/pdiddy/txrecon/pkg/types"
)

var mappingCmd = &cobra.Command{
	Use:   "mapping",
	Short: "Build tx2gene mapping tables and transcript databases",
}

// --- build subcommand ---

var mappingBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the combined genic+intergenic tx2gene table",
	Long: `Build resolves every transcript of the annotation to its gene through
the transcript database, appends one identity row per intergenic region,
and persists the table under the cache directory. A table already cached
for this annotation and flag combination is returned as-is.`,
	RunE: runMappingBuild,
}

func runMappingBuild(cmd *cobra.Command, args []string) error {
	annotation, _ := cmd.Flags().GetString("annotation")
	dbPath, _ := cmd.Flags().GetString("txdb")
	intergenicPath, _ := cmd.Flags().GetString("intergenic")
	stripVersion, _ := cmd.Flags().GetBool("strip-version")

	if annotation == "" {
		return fmt.Errorf("--annotation is required")
	}

	ws := workspaceFromFlags(cmd)
	cfg := types.MappingConfig{Annotation: annotation, StripVersion: stripVersion}

	if dbPath == "" {
		dbPath = filepath.Join(ws.CacheDir, annotation+".txdb.sqlite")
	}
	db, err := txdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	var intergenic []string
	if intergenicPath != "" {
		intergenic, err = mapping.ReadIntergenicIDs(intergenicPath)
		if err != nil {
			return err
		}
	}

	t, path, err := mapping.BuildCached(ws, db, intergenic, cfg)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d rows (%d intergenic)\n", path, len(t), len(t.IntergenicIDs()))
	return nil
}

// --- txdb subcommand ---

var mappingTxdbCmd = &cobra.Command{
	Use:   "txdb",
	Short: "Build a transcript database from a GTF annotation",
	Long: `Txdb parses a GTF annotation (plain or gzip-compressed) and writes a
SQLite transcript database into the cache directory, keyed by the
annotation name. The mapping build subcommand reads this database.`,
	RunE: runMappingTxdb,
}

func runMappingTxdb(cmd *cobra.Command, args []string) error {
	annotation, _ := cmd.Flags().GetString("annotation")
	gtfPath, _ := cmd.Flags().GetString("gtf")

	if annotation == "" || gtfPath == "" {
		return fmt.Errorf("--annotation and --gtf are required")
	}

	records, err := txdb.ReadGTF(gtfPath)
	if err != nil {
		return err
	}

	ws := workspaceFromFlags(cmd)
	dbPath := filepath.Join(ws.CacheDir, annotation+".txdb.sqlite")
	if err := txdb.Create(dbPath, records); err != nil {
		return err
	}

	fmt.Printf("%s: %d transcripts\n", dbPath, len(records))
	return nil
}

func init() {
	mappingCmd.PersistentFlags().String("annotation", "", "annotation name keying cache artifacts (e.g. ensembl-110)")

	mappingBuildCmd.Flags().String("txdb", "", "transcript database path (default: <cache-dir>/<annotation>.txdb.sqlite)")
	mappingBuildCmd.Flags().String("intergenic", "", "file of intergenic region identifiers, one per line")
	mappingBuildCmd.Flags().Bool("strip-version", false, "strip version suffixes from genic transcript identifiers")

	mappingTxdbCmd.Flags().String("gtf", "", "GTF annotation file (.gtf or .gtf.gz)")

	mappingCmd.AddCommand(mappingBuildCmd)
	mappingCmd.AddCommand(mappingTxdbCmd)

	rootCmd.AddCommand(mappingCmd)
}
