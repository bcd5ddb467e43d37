// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package quant reads and rewrites per-transcript abundance files produced
// by upstream quantification tools. Column headers are tool-specific and
// come from configuration; everything a tool writes beyond the four columns
// txrecon cares about is carried through derived copies untouched.
package quant

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/pdiddy/txrecon/internal/mapping"
	"github.com/pdiddy/txrecon/pkg/types"
)

// File is an abundance table held as raw records so derived copies preserve
// the producing tool's exact column set. The original file is never
// modified; rewrites always go to a new path.
type File struct {
	Header  []string
	Records [][]string

	target, count, effLen, abundance int
}

// Read loads the abundance file at path using the column layout in cfg.
func Read(path string, cfg types.ToolConfig) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening abundance file %s: %w", path, err)
	}
	defer fh.Close()

	r := csv.NewReader(fh)
	r.Comma = '\t'

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing abundance file %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("abundance file %s: empty", path)
	}

	f := &File{Header: rows[0], Records: rows[1:]}
	for col, idx := range map[string]*int{
		cfg.TargetColumn:    &f.target,
		cfg.CountColumn:     &f.count,
		cfg.EffLengthColumn: &f.effLen,
		cfg.AbundanceColumn: &f.abundance,
	} {
		*idx = indexOf(f.Header, col)
		if *idx < 0 {
			return nil, fmt.Errorf("abundance file %s: column %q not found", path, col)
		}
	}
	return f, nil
}

// Len returns the number of data rows.
func (f *File) Len() int { return len(f.Records) }

// TargetID returns the identifier of row i.
func (f *File) TargetID(i int) string { return f.Records[i][f.target] }

// Count returns the estimated read count of row i.
func (f *File) Count(i int) (float64, error) {
	return f.parse(i, f.count)
}

// EffLength returns the effective length of row i.
func (f *File) EffLength(i int) (float64, error) {
	return f.parse(i, f.effLen)
}

// Abundance returns the TPM value of row i.
func (f *File) Abundance(i int) (float64, error) {
	return f.parse(i, f.abundance)
}

func (f *File) parse(i, col int) (float64, error) {
	v, err := strconv.ParseFloat(f.Records[i][col], 64)
	if err != nil {
		return 0, fmt.Errorf("row %s: bad %s value %q", f.TargetID(i), f.Header[col], f.Records[i][col])
	}
	return v, nil
}

// Write persists the table as tab-separated text at path.
func (f *File) Write(path string) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating abundance file %s: %w", path, err)
	}

	w := csv.NewWriter(fh)
	w.Comma = '\t'
	records := make([][]string, 0, len(f.Records)+1)
	records = append(records, f.Header)
	records = append(records, f.Records...)
	if err := w.WriteAll(records); err != nil {
		fh.Close()
		return fmt.Errorf("writing abundance file %s: %w", path, err)
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("closing abundance file %s: %w", path, err)
	}
	return nil
}

// WriteNormalized writes a copy of the table to path with intergenic target
// identifiers rewritten per rw. Rows outside the rewrite domain are copied
// unchanged, including genic rows whose version suffix is intentionally
// left in place.
func (f *File) WriteNormalized(path string, rw mapping.Rewrites) error {
	out := &File{
		Header:    f.Header,
		Records:   make([][]string, len(f.Records)),
		target:    f.target,
		count:     f.count,
		effLen:    f.effLen,
		abundance: f.abundance,
	}
	for i, rec := range f.Records {
		if sub, ok := rw[rec[f.target]]; ok {
			rec = cloneRecord(rec)
			rec[f.target] = sub
		}
		out.Records[i] = rec
	}
	return out.Write(path)
}

func cloneRecord(rec []string) []string {
	out := make([]string, len(rec))
	copy(out, rec)
	return out
}

func indexOf(fields []string, name string) int {
	for i, f := range fields {
		if f == name {
			return i
		}
	}
	return -1
}
