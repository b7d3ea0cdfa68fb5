// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package finder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wevbarker/sauron/pkg/types"
)

func rec(name, key, id string, pubs int) types.ResearcherRecord {
	r := types.ResearcherRecord{DisplayName: name, StableKey: key, CanonicalID: id, PublicationCount: pubs}
	if id != "" {
		r.ProfileURL = "https://inspirehep.net/authors/" + id
	}
	return r
}

func TestReconcile_ExpansionReplacesMatched(t *testing.T) {
	matched := []types.ResearcherRecord{
		rec("Alice Newton", "alice.newton.1", "A1", 10),
		rec("Bob Carter", "bob.carter.1", "B1", 5),
	}
	expanded := []types.ResearcherRecord{
		rec("Alice J. Newton", "alice.newton.1", "A1", 12),
		rec("Carol Lee", "carol.lee.1", "C1", 7),
	}

	got := Reconcile(nil, matched, expanded)
	assert.Equal(t, []types.ResearcherRecord{
		rec("Alice J. Newton", "alice.newton.1", "A1", 12),
		rec("Carol Lee", "carol.lee.1", "C1", 7),
	}, got)
}

func TestReconcile_Precedence(t *testing.T) {
	matched := []types.ResearcherRecord{rec("Alice Newton", "alice.newton.1", "A1", 10)}
	expanded := []types.ResearcherRecord{rec("A. Newton", "alice.newton.1", "A1", 99)}

	got := Reconcile(nil, matched, expanded)
	require.Len(t, got, 1)
	assert.Equal(t, expanded[0], got[0], "the expansion record wins for a shared stable key")
}

func TestReconcile_EmptyExpansionKeepsMatched(t *testing.T) {
	matched := []types.ResearcherRecord{
		rec("Bob Carter", "bob.carter.1", "B1", 5),
		rec("Alice Newton", "alice.newton.1", "A1", 10),
		rec("Alice N.", "alice.newton.1", "A1", 10),
		rec("No Key", "", "K1", 1),
	}

	got := Reconcile(nil, matched, nil)
	assert.Equal(t, []types.ResearcherRecord{
		rec("Alice Newton", "alice.newton.1", "A1", 10),
		rec("Bob Carter", "bob.carter.1", "B1", 5),
		rec("No Key", "", "K1", 1),
	}, got, "first occurrence per key is kept and keyless records survive")
}

func TestReconcile_UnmatchedAlwaysRetained(t *testing.T) {
	expanded := []types.ResearcherRecord{rec("Carol Lee", "carol.lee.1", "C1", 7)}
	unmatched := []types.CandidateName{"Zed Unknown", "Bob Carter", "Bob Carter"}

	got := Reconcile(unmatched, nil, expanded)
	assert.Equal(t, []types.ResearcherRecord{
		{DisplayName: "Bob Carter"},
		{DisplayName: "Bob Carter"},
		rec("Carol Lee", "carol.lee.1", "C1", 7),
		{DisplayName: "Zed Unknown"},
	}, got, "keyless records are never merged with each other")
}

func TestReconcile_DedupInvariant(t *testing.T) {
	expanded := []types.ResearcherRecord{
		rec("Alice", "a.1", "1", 1),
		rec("Alice", "a.1", "1", 2),
		rec("Bea", "b.1", "2", 3),
		rec("Alice", "a.1", "1", 4),
	}
	matched := []types.ResearcherRecord{rec("Bea", "b.1", "2", 0)}

	got := Reconcile([]types.CandidateName{"Carl Free"}, matched, expanded)

	seen := map[string]bool{}
	for _, r := range got {
		if !r.HasStableKey() {
			continue
		}
		assert.False(t, seen[r.StableKey], "duplicate stable key %s", r.StableKey)
		seen[r.StableKey] = true
	}
	assert.Len(t, got, 3)
	assert.Equal(t, 4, got[0].PublicationCount, "last expansion record wins")
}

func TestReconcile_Idempotent(t *testing.T) {
	unmatched := []types.CandidateName{"Zed Unknown", "amy lower"}
	matched := []types.ResearcherRecord{rec("Bob Carter", "bob.carter.1", "B1", 5)}
	expanded := []types.ResearcherRecord{
		rec("Carol Lee", "carol.lee.1", "C1", 7),
		rec("Alice Newton", "alice.newton.1", "A1", 10),
		rec("Alice Newton", "alice.newton.2", "A2", 3),
	}

	first := Reconcile(unmatched, matched, expanded)
	second := Reconcile(unmatched, matched, expanded)
	assert.Equal(t, first, second)

	// Reordering the inputs does not change the output.
	reversed := []types.ResearcherRecord{expanded[2], expanded[1], expanded[0]}
	third := Reconcile([]types.CandidateName{"amy lower", "Zed Unknown"}, matched, reversed)
	assert.Equal(t, first, third)
}

func TestReconcile_OrderIsCaseSensitive(t *testing.T) {
	got := Reconcile([]types.CandidateName{"amy lower", "Zed Upper", "Bob Mid"}, nil, nil)
	var names []string
	for _, r := range got {
		names = append(names, r.DisplayName)
	}
	assert.Equal(t, []string{"Bob Mid", "Zed Upper", "amy lower"}, names)
}

func TestReconcile_DoesNotMutateInputs(t *testing.T) {
	expanded := []types.ResearcherRecord{
		rec("Zed", "z.1", "3", 1),
		rec("Amy", "a.1", "1", 1),
	}
	snapshot := append([]types.ResearcherRecord(nil), expanded...)
	Reconcile(nil, nil, expanded)
	assert.Equal(t, snapshot, expanded)
}

func TestReconcile_AllEmpty(t *testing.T) {
	assert.Empty(t, Reconcile(nil, nil, nil))
}
