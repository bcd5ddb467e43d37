package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "txrecon/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// Workspace locates the per-context directories every stage works in.
// Each (tool, species, library) context owns one Workspace; two contexts
// never share an OutputDir, which is what keeps concurrent invocations from
// racing on cache and temporary files.
type Workspace struct {
	// OutputDir holds per-run artifacts: temporary normalized abundance
	// copies, reconciled abundance files, aggregation exports.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// CacheDir holds reusable artifacts keyed by annotation identity:
	// tx2gene mapping tables and transcript databases.
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`
}

// Tool identifies the upstream quantification tool that produced an
// abundance file. The tool determines the column layout of the file.
type Tool string

const (
	ToolSalmon   Tool = "salmon"
	ToolKallisto Tool = "kallisto"
)

// ToolConfig names the abundance-file columns for one quantification tool.
// Column headers are tool-specific, so they are configuration rather than
// constants; DefaultToolConfig covers the tools shipped by default and a
// txrecon.yaml tools section can override or extend them.
type ToolConfig struct {
	// TargetColumn is the header of the transcript/region identifier column.
	TargetColumn string `json:"target_column" yaml:"target_column" mapstructure:"target_column"`

	// CountColumn is the header of the estimated read count column.
	CountColumn string `json:"count_column" yaml:"count_column" mapstructure:"count_column"`

	// EffLengthColumn is the header of the effective length column.
	EffLengthColumn string `json:"eff_length_column" yaml:"eff_length_column" mapstructure:"eff_length_column"`

	// AbundanceColumn is the header of the relative abundance (TPM) column.
	AbundanceColumn string `json:"abundance_column" yaml:"abundance_column" mapstructure:"abundance_column"`
}

// DefaultToolConfig returns the built-in column layout for tool, and whether
// the tool is known.
func DefaultToolConfig(tool Tool) (ToolConfig, bool) {
	switch tool {
	case ToolSalmon:
		return ToolConfig{
			TargetColumn:    "Name",
			CountColumn:     "NumReads",
			EffLengthColumn: "EffectiveLength",
			AbundanceColumn: "TPM",
		}, true
	case ToolKallisto:
		return ToolConfig{
			TargetColumn:    "target_id",
			CountColumn:     "est_counts",
			EffLengthColumn: "eff_length",
			AbundanceColumn: "tpm",
		}, true
	}
	return ToolConfig{}, false
}

// MappingConfig holds settings for the mapping stage.
type MappingConfig struct {
	// Annotation names the annotation source the mapping is built from
	// (e.g. "ensembl-110"). It keys the cache file.
	Annotation string `json:"annotation" yaml:"annotation"`

	// StripVersion removes trailing ".N" version suffixes from genic
	// transcript identifiers when building the mapping table.
	StripVersion bool `json:"strip_version" yaml:"strip_version"`
}

// AggregateConfig holds settings for the aggregation stage.
type AggregateConfig struct {
	// Tool identifies the quantification tool that wrote the abundance file.
	Tool Tool `json:"tool" yaml:"tool"`

	// TxOut keeps transcript-level output instead of summarizing to genes.
	TxOut bool `json:"tx_out" yaml:"tx_out"`

	// IgnoreTxVersion makes the aggregator strip version suffixes before
	// matching identifiers against the mapping table.
	IgnoreTxVersion bool `json:"ignore_tx_version" yaml:"ignore_tx_version"`

	// NormalizeIDs rewrites dotted intergenic identifiers before
	// aggregation so IgnoreTxVersion cannot truncate them.
	NormalizeIDs bool `json:"normalize_ids" yaml:"normalize_ids"`

	// BridgeCommand is the external aggregator executable
	// (default "tximport-bridge").
	BridgeCommand string `json:"bridge_command" yaml:"bridge_command"`
}

// ReleaseConfig holds settings for the release-listing utility.
type ReleaseConfig struct {
	HTTPConfig `yaml:",inline"`

	// DescriptorURL is the location of the tab-separated release descriptor.
	DescriptorURL string `json:"descriptor_url" yaml:"descriptor_url"`

	// MinimumVersion is this package's version, compared against each
	// release's minimum supported version when filtering.
	MinimumVersion string `json:"minimum_version" yaml:"minimum_version"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Workspace Workspace           `json:"workspace" yaml:"workspace"`
	Mapping   MappingConfig       `json:"mapping" yaml:"mapping"`
	Aggregate AggregateConfig     `json:"aggregate" yaml:"aggregate"`
	Releases  ReleaseConfig       `json:"releases" yaml:"releases"`
	Tools     map[Tool]ToolConfig `json:"tools" yaml:"tools"`
}
