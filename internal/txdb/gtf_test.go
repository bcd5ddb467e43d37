// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package txdb

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGTF = `##description: test annotation
chr1	havana	gene	100	900	.	+	.	gene_id "ENSG1"; gene_name "ALPHA";
chr1	havana	transcript	100	900	.	+	.	gene_id "ENSG1"; transcript_id "ENST1.2";
chr1	havana	exon	100	400	.	+	.	gene_id "ENSG1"; transcript_id "ENST1.2";
chr1	havana	transcript	150	800	.	+	.	gene_id "ENSG1"; transcript_id "ENST2.1";
chr2	havana	transcript	10	90	.	-	.	gene_id "ENSG2"; transcript_id "ENST3";
`

func writeGTF(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadGTF(t *testing.T) {
	records, err := ReadGTF(writeGTF(t, "anno.gtf", testGTF))
	require.NoError(t, err)

	assert.Equal(t, []TxRecord{
		{TxName: "ENST1.2", GeneID: "ENSG1"},
		{TxName: "ENST2.1", GeneID: "ENSG1"},
		{TxName: "ENST3", GeneID: "ENSG2"},
	}, records)
}

func TestReadGTFGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anno.gtf.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(testGTF))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	records, err := ReadGTF(path)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestReadGTFSkipsDuplicateTranscripts(t *testing.T) {
	dup := testGTF +
		"chr2\thavana\ttranscript\t10\t90\t.\t-\t.\tgene_id \"ENSG2\"; transcript_id \"ENST3\";\n"
	records, err := ReadGTF(writeGTF(t, "anno.gtf", dup))
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestReadGTFMissingAttributes(t *testing.T) {
	bad := "chr1\thavana\ttranscript\t1\t9\t.\t+\t.\tgene_id \"ENSG1\";\n"
	_, err := ReadGTF(writeGTF(t, "anno.gtf", bad))
	assert.ErrorContains(t, err, "transcript_id")
}

func TestReadGTFTruncatedLine(t *testing.T) {
	_, err := ReadGTF(writeGTF(t, "anno.gtf", "chr1\thavana\ttranscript\n"))
	assert.ErrorContains(t, err, "expected 9 fields")
}

func TestParseAttributes(t *testing.T) {
	attrs := parseAttributes(`gene_id "ENSG1"; transcript_id "ENST1.2"; level 2;`)
	assert.Equal(t, "ENSG1", attrs["gene_id"])
	assert.Equal(t, "ENST1.2", attrs["transcript_id"])
	assert.Equal(t, "2", attrs["level"])
}
