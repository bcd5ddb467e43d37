// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Release describes one published reference release as listed in the remote
// release descriptor.
type Release struct {
	// Release is the release label (e.g. "ensembl-110").
	Release string `json:"release" yaml:"release"`

	// ReleaseDate is the publication date of the release, as listed
	// (descriptor dates are plain "YYYY-MM-DD" strings).
	ReleaseDate string `json:"release_date" yaml:"release_date"`

	// AccessURL is the base URL of the release's annotation artifacts.
	AccessURL string `json:"access_url" yaml:"access_url"`

	// FastaURL is the URL of the release's combined genic+intergenic FASTA.
	FastaURL string `json:"fasta_url" yaml:"fasta_url"`

	// MinimumVersion is the oldest package version the release supports.
	MinimumVersion string `json:"minimum_version" yaml:"minimum_version"`

	// Description is a one-line summary of the release.
	Description string `json:"description" yaml:"description"`

	// Message carries optional maintainer notes (deprecations, errata).
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}
