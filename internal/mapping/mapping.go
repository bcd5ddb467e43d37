// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mapping builds and persists tx2gene mapping tables that cover
// annotated transcripts and intergenic background regions uniformly.
// See docs/ARCHITECTURE § Mapping.
package mapping

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/txrecon/pkg/types"
)

// Pair is one transcript-to-gene row. Intergenic regions map to themselves:
// TxName == GeneID.
type Pair struct {
	TxName string
	GeneID string
}

// Table is an ordered tx2gene mapping: genic rows first, then intergenic.
// The order carries no meaning downstream but is kept stable so a rebuild
// writes a byte-identical cache file.
type Table []Pair

// TranscriptDB is the view of the annotation transcript database the
// builder needs: all transcript names, and the gene each one belongs to.
type TranscriptDB interface {
	TxNames() ([]string, error)
	GeneForTx(txName string) (string, error)
}

// ResolveError reports a transcript the annotation database could not
// resolve to a gene.
type ResolveError struct {
	TxName string
	Err    error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolving transcript %q: %v", e.TxName, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// Options controls mapping construction.
type Options struct {
	// StripVersion removes the version suffix (everything from the first
	// '.') from genic transcript names. Intergenic names are never touched
	// here: they are not versioned, their dots are part of contig names.
	StripVersion bool
}

// Build constructs the combined tx2gene table: one row per annotated
// transcript, resolved through db, followed by one identity row per
// intergenic region identifier.
func Build(db TranscriptDB, intergenic []string, opts Options) (Table, error) {
	names, err := db.TxNames()
	if err != nil {
		return nil, fmt.Errorf("listing transcripts: %w", err)
	}

	t := make(Table, 0, len(names)+len(intergenic))
	for _, name := range names {
		gene, err := db.GeneForTx(name)
		if err != nil {
			return nil, &ResolveError{TxName: name, Err: err}
		}
		tx := name
		if opts.StripVersion {
			tx = stripVersion(tx)
		}
		t = append(t, Pair{TxName: tx, GeneID: gene})
	}

	for _, id := range intergenic {
		t = append(t, Pair{TxName: id, GeneID: id})
	}

	return t, nil
}

// CacheFileName returns the deterministic cache file name for an annotation.
// Version-stripped tables live under a distinct name so the two variants
// never shadow each other.
func CacheFileName(annotation string, stripVersion bool) string {
	if stripVersion {
		return annotation + ".tx2gene.noversion.tsv"
	}
	return annotation + ".tx2gene.tsv"
}

// BuildCached returns the mapping table for cfg, building and persisting it
// on first use. When the cache file already exists it is returned as-is
// without touching the transcript database. The returned path is the cache
// location the table was read from or written to.
func BuildCached(ws types.Workspace, db TranscriptDB, intergenic []string, cfg types.MappingConfig) (Table, string, error) {
	path := filepath.Join(ws.CacheDir, CacheFileName(cfg.Annotation, cfg.StripVersion))

	if _, err := os.Stat(path); err == nil {
		t, err := ReadFile(path)
		if err != nil {
			return nil, path, err
		}
		return t, path, nil
	}

	t, err := Build(db, intergenic, Options{StripVersion: cfg.StripVersion})
	if err != nil {
		return nil, path, err
	}

	if err := os.MkdirAll(ws.CacheDir, 0o755); err != nil {
		return nil, path, fmt.Errorf("creating cache directory %s: %w", ws.CacheDir, err)
	}
	if err := t.WriteFile(path); err != nil {
		return nil, path, err
	}
	return t, path, nil
}

const header = "TXNAME\tGENEID"

// WriteFile persists the table as tab-separated text with a TXNAME/GENEID
// header. The file is written to a temporary sibling and renamed into place
// so a crash mid-write cannot leave a truncated cache.
func (t Table) WriteFile(path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating mapping file %s: %w", tmp, err)
	}

	w := csv.NewWriter(f)
	w.Comma = '\t'
	records := make([][]string, 0, len(t)+1)
	records = append(records, []string{"TXNAME", "GENEID"})
	for _, p := range t {
		records = append(records, []string{p.TxName, p.GeneID})
	}
	if err := w.WriteAll(records); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing mapping file %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing mapping file %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming mapping file into place: %w", err)
	}
	return nil
}

// ReadFile loads a persisted mapping table.
func ReadFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mapping file %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = 2

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing mapping file %s: %w", path, err)
	}
	if len(records) == 0 || records[0][0] != "TXNAME" || records[0][1] != "GENEID" {
		return nil, fmt.Errorf("mapping file %s: missing %s header", path, header)
	}

	t := make(Table, 0, len(records)-1)
	for _, rec := range records[1:] {
		t = append(t, Pair{TxName: rec[0], GeneID: rec[1]})
	}
	return t, nil
}

// IntergenicIDs returns the identifiers of the table's intergenic rows
// (rows that map to themselves).
func (t Table) IntergenicIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	for _, p := range t {
		if p.TxName == p.GeneID {
			ids[p.TxName] = struct{}{}
		}
	}
	return ids
}

// WithoutIntergenic returns a copy of the table with intergenic rows removed.
func (t Table) WithoutIntergenic() Table {
	out := make(Table, 0, len(t))
	for _, p := range t {
		if p.TxName != p.GeneID {
			out = append(out, p)
		}
	}
	return out
}

// ReadIntergenicIDs loads intergenic region identifiers from a plain text
// file, one identifier per line. Blank lines and #-comments are skipped.
func ReadIntergenicIDs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening intergenic id file %s: %w", path, err)
	}
	defer f.Close()

	var ids []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading intergenic id file %s: %w", path, err)
	}
	return ids, nil
}

// stripVersion drops everything from the first '.' onward.
func stripVersion(s string) string {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[:i]
	}
	return s
}
