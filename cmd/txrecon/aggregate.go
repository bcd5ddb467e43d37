// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/txrecon/internal/aggregate"
	"github.com/pdiddy/txrecon/internal/mapping"
	"github.com/pdiddy/txrecon/pkg/types"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Aggregate a per-transcript abundance file to quantification units",
	Long: `Aggregate hands an abundance file and a tx2gene mapping table to the
external aggregation engine and reports the per-unit count, abundance, and
length vectors. With --normalize, dotted intergenic identifiers are
rewritten first so --ignore-tx-version cannot truncate them.`,
	RunE: runAggregate,
}

func runAggregate(cmd *cobra.Command, args []string) error {
	quantPath, _ := cmd.Flags().GetString("quant")
	mappingPath, _ := cmd.Flags().GetString("mapping")
	toolName, _ := cmd.Flags().GetString("tool")
	txOut, _ := cmd.Flags().GetBool("tx-out")
	ignoreTxVersion, _ := cmd.Flags().GetBool("ignore-tx-version")
	normalize, _ := cmd.Flags().GetBool("normalize")
	bridge, _ := cmd.Flags().GetString("bridge")
	outPath, _ := cmd.Flags().GetString("out")

	if quantPath == "" || mappingPath == "" {
		return fmt.Errorf("--quant and --mapping are required")
	}

	tool := types.Tool(toolName)
	toolCfg, err := toolConfig(tool)
	if err != nil {
		return err
	}

	t, err := mapping.ReadFile(mappingPath)
	if err != nil {
		return err
	}

	if ignoreTxVersion && !normalize {
		if n := dottedIntergenic(t); n > 0 {
			fmt.Fprintf(os.Stderr,
				"warning: %d intergenic identifier(s) contain dots; --ignore-tx-version will truncate them, consider --normalize\n", n)
		}
	}

	agg, err := aggregate.NewBridge(bridge)
	if err != nil {
		return err
	}

	res, err := aggregate.Run(context.Background(), agg, aggregate.Params{
		QuantPath: quantPath,
		Mapping:   t,
		Workspace: workspaceFromFlags(cmd),
		Config: types.AggregateConfig{
			Tool:            tool,
			TxOut:           txOut,
			IgnoreTxVersion: ignoreTxVersion,
			NormalizeIDs:    normalize,
			BridgeCommand:   bridge,
		},
		ToolCfg: toolCfg,
	})
	if err != nil {
		return err
	}

	if outPath != "" {
		data, err := yaml.Marshal(res)
		if err != nil {
			return fmt.Errorf("encoding aggregation result: %w", err)
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("writing aggregation result %s: %w", outPath, err)
		}
		fmt.Printf("%s: %d units\n", outPath, len(res.Units))
		return nil
	}

	fmt.Printf("%d units aggregated\n", len(res.Units))
	return nil
}

// dottedIntergenic counts intergenic rows whose identifier contains a dot.
func dottedIntergenic(t mapping.Table) int {
	n := 0
	for id := range t.IntergenicIDs() {
		if strings.Contains(id, ".") {
			n++
		}
	}
	return n
}

func init() {
	aggregateCmd.Flags().String("quant", "", "abundance file from the quantification tool")
	aggregateCmd.Flags().String("mapping", "", "tx2gene mapping table (TSV)")
	aggregateCmd.Flags().String("tool", string(types.ToolSalmon), "quantification tool: salmon or kallisto")
	aggregateCmd.Flags().Bool("tx-out", false, "keep transcript-level output instead of summarizing to genes")
	aggregateCmd.Flags().Bool("ignore-tx-version", false, "strip version suffixes before identifier matching")
	aggregateCmd.Flags().Bool("normalize", false, "rewrite dotted intergenic identifiers before aggregation")
	aggregateCmd.Flags().String("bridge", "", "aggregator executable (default: tximport-bridge)")
	aggregateCmd.Flags().String("out", "", "write the aggregation result as YAML to this path")

	rootCmd.AddCommand(aggregateCmd)
}
