// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package releases

import (
	"strconv"
	"strings"
)

// CompareVersions compares two dotted-numeric version strings, returning
// -1, 0, or 1. Missing components count as zero, so "1.2" equals "1.2.0".
// Non-numeric components compare lexically, which keeps odd descriptor
// entries ordered deterministically instead of failing the listing.
func CompareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")

	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		av, bv := component(as, i), component(bs, i)

		an, aerr := strconv.Atoi(av)
		bn, berr := strconv.Atoi(bv)
		if aerr == nil && berr == nil {
			switch {
			case an < bn:
				return -1
			case an > bn:
				return 1
			}
			continue
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}

func component(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return "0"
}
