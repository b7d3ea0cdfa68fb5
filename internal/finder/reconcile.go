// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package finder

import (
	"sort"

	"github.com/wevbarker/sauron/pkg/types"
)

// Reconcile merges the three stage outputs into the final researcher list.
//
// Expansion members are authoritative: when expanded is non-empty it
// replaces the matched set, so a matched researcher not re-found as a
// current member is dropped. When expanded is empty the matched set is
// kept. Either way each stable key appears once, keyless records are never
// merged, and every unmatched name is kept as an identity-less record.
//
// The result is sorted by display name, then stable key, then canonical id,
// and does not depend on input order beyond ties between identical records.
func Reconcile(unmatched []types.CandidateName, matched, expanded []types.ResearcherRecord) []types.ResearcherRecord {
	identified := matched
	if len(expanded) > 0 {
		identified = expanded
	}

	out := make([]types.ResearcherRecord, 0, len(unmatched)+len(identified))
	seen := make(map[string]int, len(identified))
	for _, r := range identified {
		if !r.HasStableKey() {
			out = append(out, r)
			continue
		}
		if i, ok := seen[r.StableKey]; ok {
			if len(expanded) > 0 {
				out[i] = r
			}
			continue
		}
		seen[r.StableKey] = len(out)
		out = append(out, r)
	}

	for _, n := range unmatched {
		out = append(out, types.ResearcherRecord{DisplayName: string(n)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.DisplayName != b.DisplayName {
			return a.DisplayName < b.DisplayName
		}
		if a.StableKey != b.StableKey {
			return a.StableKey < b.StableKey
		}
		return a.CanonicalID < b.CanonicalID
	})
	return out
}
