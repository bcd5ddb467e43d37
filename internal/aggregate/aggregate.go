// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate drives the external abundance aggregator. The engine
// itself is a black box behind the Aggregator port; this package owns the
// choice of inputs to pass (normalized vs. raw) and the lifecycle of any
// temporary files that choice creates. See docs/ARCHITECTURE § Aggregation.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/txrecon/internal/mapping"
	"github.com/pdiddy/txrecon/internal/quant"
	"github.com/pdiddy/txrecon/pkg/types"
)

// ErrMissingQuantFile indicates the expected quantification output is
// absent. The adapter fails fast on it without invoking the aggregator.
var ErrMissingQuantFile = errors.New("abundance file not found")

// normalizedName is the fixed name of the temporary normalized abundance
// copy inside the context's output directory. Contexts never share an
// output directory, so the fixed name cannot collide.
const normalizedName = "abundance.normalized.tsv"

// Request carries one aggregator invocation.
type Request struct {
	// QuantPath is the abundance file to aggregate.
	QuantPath string `json:"quant_path"`

	// Mapping is the tx2gene table the aggregator groups by.
	Mapping mapping.Table `json:"-"`

	// Tool identifies the quantification tool that wrote QuantPath.
	Tool types.Tool `json:"tool"`

	// TxOut keeps transcript-level output instead of summarizing to genes.
	TxOut bool `json:"tx_out"`

	// IgnoreTxVersion strips version suffixes before identifier matching.
	IgnoreTxVersion bool `json:"ignore_tx_version"`
}

// Result holds the aggregated per-unit vectors, indexed in step with Units.
type Result struct {
	Units     []string  `json:"units" yaml:"units"`
	Counts    []float64 `json:"counts" yaml:"counts"`
	Abundance []float64 `json:"abundance" yaml:"abundance"`
	Length    []float64 `json:"length" yaml:"length"`
}

// Aggregator is the port to the external aggregation engine. Tests
// substitute a double to exercise the adapter's file lifecycle and
// parameter marshalling without a real engine.
type Aggregator interface {
	Aggregate(ctx context.Context, req Request) (Result, error)
}

// Params configures one adapter run.
type Params struct {
	QuantPath string
	Mapping   mapping.Table
	Workspace types.Workspace
	Config    types.AggregateConfig
	ToolCfg   types.ToolConfig
}

// Run invokes agg with the supplied parameters. When identifier
// normalization is enabled it rewrites the mapping table and aggregates a
// normalized copy of the abundance file instead of the original; the copy
// is removed before Run returns on every exit path, aggregation failure
// included. Aggregator errors are surfaced unchanged: quantification
// failures are not transient, so nothing here retries.
func Run(ctx context.Context, agg Aggregator, p Params) (Result, error) {
	if _, err := os.Stat(p.QuantPath); err != nil {
		if os.IsNotExist(err) {
			return Result{}, fmt.Errorf("%w: %s", ErrMissingQuantFile, p.QuantPath)
		}
		return Result{}, fmt.Errorf("checking abundance file %s: %w", p.QuantPath, err)
	}

	m := p.Mapping
	quantPath := p.QuantPath

	if p.Config.NormalizeIDs {
		var rw mapping.Rewrites
		m, rw = mapping.Normalize(m, true)

		f, err := quant.Read(p.QuantPath, p.ToolCfg)
		if err != nil {
			return Result{}, err
		}
		if err := os.MkdirAll(p.Workspace.OutputDir, 0o755); err != nil {
			return Result{}, fmt.Errorf("creating output directory %s: %w", p.Workspace.OutputDir, err)
		}

		normPath := filepath.Join(p.Workspace.OutputDir, normalizedName)
		if err := f.WriteNormalized(normPath, rw); err != nil {
			return Result{}, err
		}
		defer os.Remove(normPath)
		quantPath = normPath
	}

	return agg.Aggregate(ctx, Request{
		QuantPath:       quantPath,
		Mapping:         m,
		Tool:            p.Config.Tool,
		TxOut:           p.Config.TxOut,
		IgnoreTxVersion: p.Config.IgnoreTxVersion,
	})
}
