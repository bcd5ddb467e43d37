// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mapping

import "strings"

// Rewrites maps original intergenic identifiers to their dot-free forms.
// Only identifiers that are intergenic and contain at least one '.' appear;
// genic transcript names are never rewritten in the abundance file, their
// trailing version suffix is the aggregator's to strip.
type Rewrites map[string]string

// Normalize returns a copy of t that is safe to hand to an aggregator that
// strips version suffixes, together with the rewrites to apply to the
// abundance file.
//
// Intergenic names are built as <contig>_<start>_<stop>, and draft-assembly
// contig names often contain literal dots. An aggregator stripping
// everything after the first '.' would truncate such a name to a prefix
// that matches no mapping row, silently dropping the region's counts.
// Substituting '_' for '.' keeps the identifiers intact through stripping.
//
// Every transcript name in the table is rewritten uniformly, not just the
// intergenic subset: the aggregator applies its stripping to every
// identifier, so the table must agree with it everywhere to stay
// self-consistent. For intergenic rows the gene id is rewritten alongside
// the transcript name, preserving the identity invariant.
//
// Normalize is a pure one-to-one rewrite and is idempotent: once no dots
// remain it is the identity.
func Normalize(t Table, enabled bool) (Table, Rewrites) {
	if !enabled {
		return t, nil
	}

	rw := make(Rewrites)
	out := make(Table, len(t))
	for i, p := range t {
		tx := strings.ReplaceAll(p.TxName, ".", "_")
		gene := p.GeneID
		if p.TxName == p.GeneID {
			if tx != p.TxName {
				rw[p.TxName] = tx
			}
			gene = tx
		}
		out[i] = Pair{TxName: tx, GeneID: gene}
	}
	return out, rw
}
