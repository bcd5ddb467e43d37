// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/txrecon/internal/mapping"
	"github.com/pdiddy/txrecon/internal/quant"
	"github.com/pdiddy/txrecon/pkg/types"
)

// excludedName is the fixed name of the reconciled abundance copy inside
// the context's output directory.
const excludedName = "abundance.nobackground.tsv"

var excludeCmd = &cobra.Command{
	Use:   "exclude",
	Short: "Drop intergenic rows from an abundance file and renormalize TPM",
	Long: `Exclude removes every row attributable to an intergenic region and
recomputes the TPM column over the surviving rows so it sums to one
million again. The input file is never modified; the reconciled table is
written as a new file.`,
	RunE: runExclude,
}

func runExclude(cmd *cobra.Command, args []string) error {
	quantPath, _ := cmd.Flags().GetString("quant")
	mappingPath, _ := cmd.Flags().GetString("mapping")
	intergenicPath, _ := cmd.Flags().GetString("intergenic")
	toolName, _ := cmd.Flags().GetString("tool")
	outPath, _ := cmd.Flags().GetString("out")

	if quantPath == "" {
		return fmt.Errorf("--quant is required")
	}
	if mappingPath == "" && intergenicPath == "" {
		return fmt.Errorf("--mapping or --intergenic is required")
	}

	toolCfg, err := toolConfig(types.Tool(toolName))
	if err != nil {
		return err
	}

	intergenic := make(map[string]struct{})
	if mappingPath != "" {
		t, err := mapping.ReadFile(mappingPath)
		if err != nil {
			return err
		}
		intergenic = t.IntergenicIDs()
	}
	if intergenicPath != "" {
		ids, err := mapping.ReadIntergenicIDs(intergenicPath)
		if err != nil {
			return err
		}
		for _, id := range ids {
			intergenic[id] = struct{}{}
		}
	}

	f, err := quant.Read(quantPath, toolCfg)
	if err != nil {
		return err
	}

	out, err := quant.ExcludeIntergenic(f, intergenic)
	if err != nil {
		return err
	}

	if outPath == "" {
		ws := workspaceFromFlags(cmd)
		outPath = filepath.Join(ws.OutputDir, excludedName)
	}
	if err := ensureParentDir(outPath); err != nil {
		return err
	}
	if err := out.Write(outPath); err != nil {
		return err
	}

	fmt.Printf("%s: %d rows kept, %d excluded\n", outPath, out.Len(), f.Len()-out.Len())
	return nil
}

func init() {
	excludeCmd.Flags().String("quant", "", "abundance file from the quantification tool")
	excludeCmd.Flags().String("mapping", "", "tx2gene mapping table; its identity rows name the intergenic regions")
	excludeCmd.Flags().String("intergenic", "", "file of intergenic region identifiers, one per line")
	excludeCmd.Flags().String("tool", string(types.ToolSalmon), "quantification tool: salmon or kallisto")
	excludeCmd.Flags().String("out", "", "output path (default: <output-dir>/"+excludedName+")")

	rootCmd.AddCommand(excludeCmd)
}
