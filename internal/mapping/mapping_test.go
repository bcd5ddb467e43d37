// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mapping

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/txrecon/pkg/types"
)

// fakeDB is a TranscriptDB test double that records lookups.
type fakeDB struct {
	txs   []Pair
	calls int
}

func (f *fakeDB) TxNames() ([]string, error) {
	f.calls++
	names := make([]string, len(f.txs))
	for i, p := range f.txs {
		names[i] = p.TxName
	}
	return names, nil
}

func (f *fakeDB) GeneForTx(txName string) (string, error) {
	f.calls++
	for _, p := range f.txs {
		if p.TxName == txName {
			return p.GeneID, nil
		}
	}
	return "", fmt.Errorf("transcript %q not in database", txName)
}

func TestBuildCombinesGenicAndIntergenic(t *testing.T) {
	db := &fakeDB{txs: []Pair{
		{"ENST1.2", "ENSG1"},
		{"ENST2.1", "ENSG2"},
	}}
	intergenic := []string{"chr1_100_200", "chr2_300_400"}

	table, err := Build(db, intergenic, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := Table{
		{"ENST1.2", "ENSG1"},
		{"ENST2.1", "ENSG2"},
		{"chr1_100_200", "chr1_100_200"},
		{"chr2_300_400", "chr2_300_400"},
	}
	if len(table) != len(want) {
		t.Fatalf("len = %d, want %d", len(table), len(want))
	}
	for i, p := range want {
		if table[i] != p {
			t.Errorf("row %d = %v, want %v", i, table[i], p)
		}
	}
}

func TestBuildMappingCompleteness(t *testing.T) {
	db := &fakeDB{txs: []Pair{{"ENST1", "ENSG1"}}}
	intergenic := []string{"bg1", "bg2", "bg3"}

	table, err := Build(db, intergenic, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, id := range intergenic {
		n := 0
		for _, p := range table {
			if p.TxName == id {
				if p.GeneID != id {
					t.Errorf("intergenic row %s maps to %s, want identity", id, p.GeneID)
				}
				n++
			}
		}
		if n != 1 {
			t.Errorf("intergenic id %s appears %d times, want exactly 1", id, n)
		}
	}
}

func TestBuildStripVersionGenicOnly(t *testing.T) {
	db := &fakeDB{txs: []Pair{
		{"ENST1.2", "ENSG1"},
		{"ENST2", "ENSG2"},
	}}
	// Dotted contig name in an intergenic id must survive.
	intergenic := []string{"chrA.1_100_200"}

	table, err := Build(db, intergenic, Options{StripVersion: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, p := range table {
		if p.TxName == p.GeneID {
			continue
		}
		if strings.Contains(p.TxName, ".") {
			t.Errorf("genic transcript %q still contains a dot", p.TxName)
		}
	}
	if table[0].TxName != "ENST1" {
		t.Errorf("stripped name = %q, want ENST1", table[0].TxName)
	}
	last := table[len(table)-1]
	if last.TxName != "chrA.1_100_200" || last.GeneID != "chrA.1_100_200" {
		t.Errorf("intergenic row = %v, want identity with dot intact", last)
	}
}

func TestBuildResolveError(t *testing.T) {
	db := &brokenDB{}
	_, err := Build(db, nil, Options{})
	var re *ResolveError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want *ResolveError", err)
	}
	if re.TxName != "ENST-GHOST" {
		t.Errorf("ResolveError.TxName = %q, want ENST-GHOST", re.TxName)
	}
}

// brokenDB lists a transcript it cannot resolve.
type brokenDB struct{}

func (b *brokenDB) TxNames() ([]string, error) { return []string{"ENST-GHOST"}, nil }
func (b *brokenDB) GeneForTx(string) (string, error) {
	return "", errors.New("no such transcript")
}

func TestWriteReadRoundTrip(t *testing.T) {
	table := Table{
		{"ENST1", "ENSG1"},
		{"bg1", "bg1"},
	}
	path := filepath.Join(t.TempDir(), "tx2gene.tsv")
	if err := table.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if got := string(data); got != "TXNAME\tGENEID\nENST1\tENSG1\nbg1\tbg1\n" {
		t.Errorf("file contents = %q", got)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(got) != 2 || got[0] != table[0] || got[1] != table[1] {
		t.Errorf("round trip = %v, want %v", got, table)
	}
}

func TestWriteFileLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tx2gene.tsv")
	if err := (Table{{"a", "b"}}).WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "tx2gene.tsv" {
		t.Errorf("unexpected directory contents: %v", entries)
	}
}

func TestBuildCachedShortCircuit(t *testing.T) {
	ws := types.Workspace{CacheDir: t.TempDir()}
	cfg := types.MappingConfig{Annotation: "testanno", StripVersion: true}

	cached := Table{{"ENST9", "ENSG9"}}
	path := filepath.Join(ws.CacheDir, CacheFileName(cfg.Annotation, cfg.StripVersion))
	if err := cached.WriteFile(path); err != nil {
		t.Fatal(err)
	}

	db := &fakeDB{txs: []Pair{{"ENST1", "ENSG1"}}}
	got, gotPath, err := BuildCached(ws, db, nil, cfg)
	if err != nil {
		t.Fatalf("BuildCached: %v", err)
	}
	if db.calls != 0 {
		t.Errorf("transcript database was queried %d times, want 0", db.calls)
	}
	if gotPath != path {
		t.Errorf("path = %q, want %q", gotPath, path)
	}
	if len(got) != 1 || got[0] != cached[0] {
		t.Errorf("table = %v, want cached %v", got, cached)
	}
}

func TestBuildCachedBuildsAndPersists(t *testing.T) {
	ws := types.Workspace{CacheDir: filepath.Join(t.TempDir(), "cache")}
	cfg := types.MappingConfig{Annotation: "testanno"}
	db := &fakeDB{txs: []Pair{{"ENST1", "ENSG1"}}}

	got, path, err := BuildCached(ws, db, []string{"bg1"}, cfg)
	if err != nil {
		t.Fatalf("BuildCached: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	// Second call must come from the cache.
	db2 := &fakeDB{}
	again, _, err := BuildCached(ws, db2, nil, cfg)
	if err != nil {
		t.Fatalf("BuildCached (cached): %v", err)
	}
	if db2.calls != 0 {
		t.Errorf("transcript database queried on cached build")
	}
	if len(again) != len(got) {
		t.Errorf("cached table has %d rows, want %d", len(again), len(got))
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("cache file missing: %v", err)
	}
}

func TestCacheFileNameDistinctKeys(t *testing.T) {
	plain := CacheFileName("anno", false)
	stripped := CacheFileName("anno", true)
	if plain == stripped {
		t.Errorf("cache names collide: %q", plain)
	}
}

func TestIntergenicIDsAndWithout(t *testing.T) {
	table := Table{
		{"ENST1", "ENSG1"},
		{"bg1", "bg1"},
		{"bg2", "bg2"},
	}
	ids := table.IntergenicIDs()
	if len(ids) != 2 {
		t.Fatalf("len(ids) = %d, want 2", len(ids))
	}
	if _, ok := ids["bg1"]; !ok {
		t.Error("bg1 missing from intergenic set")
	}

	genic := table.WithoutIntergenic()
	if len(genic) != 1 || genic[0].TxName != "ENST1" {
		t.Errorf("WithoutIntergenic = %v", genic)
	}
}

func TestReadIntergenicIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intergenic.txt")
	content := "# background regions\nbg1\n\nchrA.1_100_200\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ids, err := ReadIntergenicIDs(path)
	if err != nil {
		t.Fatalf("ReadIntergenicIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != "bg1" || ids[1] != "chrA.1_100_200" {
		t.Errorf("ids = %v", ids)
	}
}
