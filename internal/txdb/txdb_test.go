// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package txdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() []TxRecord {
	return []TxRecord{
		{TxName: "ENST1.2", GeneID: "ENSG1"},
		{TxName: "ENST2.1", GeneID: "ENSG1"},
		{TxName: "ENST3", GeneID: "ENSG2"},
	}
}

func TestCreateOpenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anno.txdb.sqlite")
	require.NoError(t, Create(path, testRecords()))

	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	names, err := db.TxNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"ENST1.2", "ENST2.1", "ENST3"}, names, "insertion order preserved")

	gene, err := db.GeneForTx("ENST2.1")
	require.NoError(t, err)
	assert.Equal(t, "ENSG1", gene)
}

func TestGeneForTxUnknown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anno.txdb.sqlite")
	require.NoError(t, Create(path, testRecords()))

	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.GeneForTx("ENST-GHOST")
	assert.ErrorContains(t, err, "ENST-GHOST")
}

func TestCreateReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anno.txdb.sqlite")
	require.NoError(t, Create(path, testRecords()))
	require.NoError(t, Create(path, []TxRecord{{TxName: "ENST9", GeneID: "ENSG9"}}))

	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	names, err := db.TxNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"ENST9"}, names)
}

func TestCreateDuplicateTranscript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anno.txdb.sqlite")
	err := Create(path, []TxRecord{
		{TxName: "ENST1", GeneID: "ENSG1"},
		{TxName: "ENST1", GeneID: "ENSG2"},
	})
	assert.ErrorContains(t, err, "ENST1")
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.sqlite"))
	assert.Error(t, err)
}
