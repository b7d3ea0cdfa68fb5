// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package finder

import (
	"strings"
	"unicode/utf8"

	"github.com/wevbarker/sauron/pkg/types"
)

// MaxNameLength is the longest line, in characters, accepted as a name.
const MaxNameLength = 60

// listMarkers are stripped from the start of each line.
const listMarkers = "-•*0123456789. "

// leadIns are narrative openers that mark commentary, not names.
var leadIns = []string{"based on", "please note", "here is", "the following"}

// honorifics are dropped from the front of a name.
var honorifics = map[string]bool{
	"dr": true, "dr.": true,
	"prof": true, "prof.": true, "professor": true,
	"mr.": true, "ms.": true, "mrs.": true,
}

// ParseNames turns free-text discovery output into candidate names, one per
// accepted line, in input order. Duplicates are kept; they are resolved by
// stable key later in the pipeline.
//
// The filter is lexical only. A two-word line such as "Department of
// Physics" passes; the registry match is what separates people from
// departments.
func ParseNames(raw string) []types.CandidateName {
	var names []types.CandidateName
	for _, line := range strings.Split(raw, "\n") {
		if name, ok := parseLine(line); ok {
			names = append(names, name)
		}
	}
	return names
}

func parseLine(line string) (types.CandidateName, bool) {
	line = strings.TrimSpace(line)
	line = strings.TrimSpace(strings.TrimLeft(line, listMarkers))

	if line == "" {
		return "", false
	}
	if strings.Contains(line, "**") || strings.HasSuffix(line, ":") {
		return "", false
	}
	lower := strings.ToLower(line)
	for _, p := range leadIns {
		if strings.HasPrefix(lower, p) {
			return "", false
		}
	}
	if utf8.RuneCountInString(line) > MaxNameLength {
		return "", false
	}
	if strings.Count(line, ",") > 1 {
		return "", false
	}

	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", false
	}
	return types.CandidateName(strings.Join(stripHonorifics(fields), " ")), true
}

// stripHonorifics removes leading titles from an accepted name. Titles are
// kept when removing them would leave fewer than two tokens ("Dr. Smith").
func stripHonorifics(fields []string) []string {
	i := 0
	for i < len(fields)-2 && honorifics[strings.ToLower(fields[i])] {
		i++
	}
	return fields[i:]
}
