// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package finder

import (
	"context"
	"sort"

	"github.com/wevbarker/sauron/internal/httputil"
	"github.com/wevbarker/sauron/internal/logging"
	"github.com/wevbarker/sauron/pkg/types"
)

// DefaultMaxMembers caps the membership listing per institution.
const DefaultMaxMembers = 250

// Expansion is the output of the affiliation walk.
type Expansion struct {
	// Members are the current members of the surviving institutions, one per
	// stable key, sorted by stable key.
	Members []types.ResearcherRecord

	// Institutions are the refs whose membership was listed.
	Institutions []types.InstitutionRef

	// Candidates is the number of distinct current institutions found on
	// the matched profiles.
	Candidates int

	// FellBack is set when no candidate institution matched the target
	// name and every candidate was used instead.
	FellBack bool

	// NewCount is the number of members whose stable key was not among the
	// matched records.
	NewCount int
}

// Expander walks from matched identities to their current institutions and
// on to every current member of the target institution.
type Expander struct {
	Registry Registry
	Config   types.ExpansionConfig
}

// Expand runs the three phases: collect current institutions from matched
// profiles, keep those whose names match the target institution, then list
// their current members. Registry failures shrink the result; they are
// never returned.
func (e Expander) Expand(ctx context.Context, institution string, matched []types.ResearcherRecord) Expansion {
	var exp Expansion

	// One pacer spans the walk, so the first call of a phase also waits
	// after the last call of the previous one.
	pacer := httputil.NewPacer(e.Config.ProfileDelay)

	candidates := e.candidateInstitutions(ctx, pacer, matched)
	exp.Candidates = len(candidates)
	if len(candidates) == 0 {
		logger := logging.FromContext(ctx)
		logger.Warn().Str("stage", "expand").Msg("no current institutions found on matched profiles")
		return exp
	}

	pacer.Delay = e.Config.InstitutionDelay
	exp.Institutions, exp.FellBack = e.filterInstitutions(ctx, pacer, institution, candidates)

	pacer.Delay = e.Config.MemberDelay
	members := e.listMembers(ctx, pacer, exp.Institutions)
	keys := make([]string, 0, len(members))
	for k := range members {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	initial := make(map[string]bool, len(matched))
	for _, r := range matched {
		if r.HasStableKey() {
			initial[r.StableKey] = true
		}
	}
	for _, k := range keys {
		exp.Members = append(exp.Members, members[k])
		if !initial[k] {
			exp.NewCount++
		}
	}
	return exp
}

// candidateInstitutions fetches each matched profile and returns the
// sorted union of its current institution refs.
func (e Expander) candidateInstitutions(ctx context.Context, pacer *httputil.Pacer, matched []types.ResearcherRecord) []types.InstitutionRef {
	logger := logging.FromContext(ctx)

	seen := make(map[types.InstitutionRef]bool)
	var refs []types.InstitutionRef
	for _, r := range matched {
		if r.CanonicalID == "" {
			continue
		}
		if err := pacer.Wait(ctx); err != nil {
			break
		}
		profile, err := e.Registry.GetAuthorProfile(ctx, r.CanonicalID)
		if err != nil {
			logger.Warn().Err(err).
				Str("stage", "expand").
				Str("id", r.CanonicalID).
				Str("outcome", httputil.Classify(err)).
				Msg("profile fetch failed, skipping")
			continue
		}
		for _, ref := range profile.CurrentInstitutions() {
			if !seen[ref] {
				seen[ref] = true
				refs = append(refs, ref)
			}
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i] < refs[j] })
	return refs
}

// filterInstitutions keeps candidates whose resolved name contains a
// keyword of the target institution. When none do, every candidate is
// returned and fellBack is true.
func (e Expander) filterInstitutions(ctx context.Context, pacer *httputil.Pacer, institution string, candidates []types.InstitutionRef) (kept []types.InstitutionRef, fellBack bool) {
	logger := logging.FromContext(ctx)
	keywords := InstitutionKeywords(institution)

	for _, ref := range candidates {
		if err := pacer.Wait(ctx); err != nil {
			break
		}
		name, err := e.Registry.GetInstitutionName(ctx, ref)
		if err != nil {
			logger.Warn().Err(err).
				Str("stage", "filter").
				Str("ref", string(ref)).
				Str("outcome", httputil.Classify(err)).
				Msg("institution name lookup failed")
			continue
		}
		if MatchesKeywords(name, keywords) {
			logger.Debug().Str("stage", "filter").Str("ref", string(ref)).Str("name", name).Msg("institution kept")
			kept = append(kept, ref)
		}
	}

	if len(kept) == 0 {
		logger.Warn().
			Str("stage", "filter").
			Strs("keywords", sortedKeywords(keywords)).
			Int("candidates", len(candidates)).
			Msg("no institution matched the target name, using all candidates")
		return append([]types.InstitutionRef(nil), candidates...), true
	}
	return kept, false
}

// listMembers returns the current, keyed members of refs by stable key.
// A later institution overwrites an earlier one for the same key.
func (e Expander) listMembers(ctx context.Context, pacer *httputil.Pacer, refs []types.InstitutionRef) map[string]types.ResearcherRecord {
	logger := logging.FromContext(ctx)
	limit := e.Config.MaxMembers
	if limit <= 0 {
		limit = DefaultMaxMembers
	}

	out := make(map[string]types.ResearcherRecord)
	for _, ref := range refs {
		if err := pacer.Wait(ctx); err != nil {
			break
		}
		members, err := e.Registry.ListCurrentMembers(ctx, ref, limit)
		if err != nil {
			logger.Warn().Err(err).
				Str("stage", "members").
				Str("ref", string(ref)).
				Str("outcome", httputil.Classify(err)).
				Msg("member listing failed, skipping institution")
			continue
		}

		kept := 0
		for _, m := range members {
			if !m.Record.HasStableKey() || !m.CurrentAt(ref) {
				continue
			}
			rec := m.Record
			if rec.DisplayName == "" {
				rec.DisplayName = rec.StableKey
			}
			out[rec.StableKey] = rec
			kept++
		}
		logger.Info().
			Str("stage", "members").
			Str("ref", string(ref)).
			Int("listed", len(members)).
			Int("current", kept).
			Msg("institution members")
	}
	return out
}
