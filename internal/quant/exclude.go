// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package quant

import "strconv"

// tpmScale is the total the abundance column sums to across a population.
const tpmScale = 1e6

// ExcludeIntergenic returns a copy of f with every intergenic row removed
// and the abundance column recomputed over the surviving rows.
//
// The original TPM values were normalized over the full population
// including background regions; after dropping those rows the values must
// renormalize so they again sum to one million, otherwise the table would
// silently understate relative expression. When every retained count is
// zero the recomputed abundances are all zero instead of dividing by zero.
func ExcludeIntergenic(f *File, intergenic map[string]struct{}) (*File, error) {
	out := &File{
		Header:    f.Header,
		target:    f.target,
		count:     f.count,
		effLen:    f.effLen,
		abundance: f.abundance,
	}

	var kept []int
	for i := range f.Records {
		if _, ok := intergenic[f.TargetID(i)]; ok {
			continue
		}
		kept = append(kept, i)
	}

	// Abundance is count per effective-length unit, scaled so the column
	// sums to one million.
	rates := make([]float64, len(kept))
	var total float64
	for j, i := range kept {
		count, err := f.Count(i)
		if err != nil {
			return nil, err
		}
		effLen, err := f.EffLength(i)
		if err != nil {
			return nil, err
		}
		rates[j] = count / effLen
		total += rates[j]
	}

	out.Records = make([][]string, len(kept))
	for j, i := range kept {
		rec := cloneRecord(f.Records[i])
		tpm := 0.0
		if total > 0 {
			tpm = rates[j] / total * tpmScale
		}
		rec[f.abundance] = strconv.FormatFloat(tpm, 'f', 6, 64)
		out.Records[j] = rec
	}
	return out, nil
}
