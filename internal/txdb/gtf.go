// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package txdb

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadGTF extracts transcript records from a GTF annotation at path,
// gzip-compressed or plain. One record is produced per feature line of type
// "transcript", from its transcript_id and gene_id attributes.
func ReadGTF(path string) ([]TxRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening annotation %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("reading annotation %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	var records []TxRecord
	seen := make(map[string]struct{})

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.SplitN(line, "\t", 9)
		if len(fields) < 9 {
			return nil, fmt.Errorf("annotation %s line %d: expected 9 fields, got %d", path, lineno, len(fields))
		}
		if fields[2] != "transcript" {
			continue
		}

		attrs := parseAttributes(fields[8])
		txName, gene := attrs["transcript_id"], attrs["gene_id"]
		if txName == "" || gene == "" {
			return nil, fmt.Errorf("annotation %s line %d: transcript without transcript_id/gene_id", path, lineno)
		}
		if _, dup := seen[txName]; dup {
			continue
		}
		seen[txName] = struct{}{}
		records = append(records, TxRecord{TxName: txName, GeneID: gene})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading annotation %s: %w", path, err)
	}
	return records, nil
}

// parseAttributes splits a GTF attribute column into key/value pairs.
// Attributes look like: gene_id "ENSG1"; transcript_id "ENST1.2";
func parseAttributes(s string) map[string]string {
	attrs := make(map[string]string)
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sp := strings.IndexByte(part, ' ')
		if sp < 0 {
			continue
		}
		key := part[:sp]
		val := strings.Trim(strings.TrimSpace(part[sp+1:]), `"`)
		attrs[key] = val
	}
	return attrs
}
