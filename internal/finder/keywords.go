// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package finder

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// minKeywordLength excludes short words ("of", "the", "and", "U.") from the
// institution keyword set.
const minKeywordLength = 3

var folder = cases.Fold()

// InstitutionKeywords returns the case-folded words of an institution name
// that are longer than three characters. Words are split on whitespace only,
// so punctuation stays attached ("Portsmouth," is a keyword as written).
func InstitutionKeywords(name string) map[string]struct{} {
	kw := make(map[string]struct{})
	for _, w := range strings.Fields(name) {
		if utf8.RuneCountInString(w) > minKeywordLength {
			kw[folder.String(w)] = struct{}{}
		}
	}
	return kw
}

// MatchesKeywords reports whether any keyword occurs, ignoring case, as a
// substring of display.
func MatchesKeywords(display string, keywords map[string]struct{}) bool {
	if display == "" {
		return false
	}
	folded := folder.String(display)
	for k := range keywords {
		if strings.Contains(folded, k) {
			return true
		}
	}
	return false
}

// sortedKeywords is used for logging.
func sortedKeywords(keywords map[string]struct{}) []string {
	out := make([]string, 0, len(keywords))
	for k := range keywords {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
