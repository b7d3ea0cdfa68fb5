// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package finder discovers the researchers at an institution and reconciles
// them against the author registry.
//
// The pipeline runs in one goroutine: discovery, name filtering, per-name
// matching, affiliation expansion from the matched identities, and a final
// merge. Registry failures never stop a run; they shrink the result.
package finder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wevbarker/sauron/internal/httputil"
	"github.com/wevbarker/sauron/internal/logging"
	"github.com/wevbarker/sauron/internal/metrics"
	"github.com/wevbarker/sauron/pkg/types"
)

// ErrNoResearchers is returned by callers that treat an empty final list as
// a failure. Find itself never returns it.
var ErrNoResearchers = errors.New("no researchers found")

// Registry is the author registry as seen by the pipeline.
type Registry interface {
	// SearchAuthorByName returns the top-ranked author for a free-text
	// name, or nil when there is no hit.
	SearchAuthorByName(ctx context.Context, name string) (*types.ResearcherRecord, error)

	// GetAuthorProfile returns an author's affiliation edges.
	GetAuthorProfile(ctx context.Context, canonicalID string) (types.AuthorProfile, error)

	// GetInstitutionName resolves an institution ref to a display name.
	GetInstitutionName(ctx context.Context, ref types.InstitutionRef) (string, error)

	// ListCurrentMembers returns up to limit authors with a position at
	// the institution.
	ListCurrentMembers(ctx context.Context, ref types.InstitutionRef, limit int) ([]types.Member, error)
}

// Source produces raw, untrusted text listing people at an institution.
type Source interface {
	Name() string
	FindCandidateNames(ctx context.Context, institution string) (string, error)
}

// Result is the outcome of one run, with the counts reported alongside the
// researcher list.
type Result struct {
	RunID       string                   `json:"run_id" yaml:"run_id"`
	Institution string                   `json:"institution" yaml:"institution"`
	Source      string                   `json:"source" yaml:"source"`
	Researchers []types.ResearcherRecord `json:"researchers" yaml:"researchers"`

	// Discovered is the number of names accepted by the filter.
	Discovered int `json:"discovered" yaml:"discovered"`
	Matched    int `json:"matched" yaml:"matched"`
	Unmatched  int `json:"unmatched" yaml:"unmatched"`

	// Expanded is the number of current members found by expansion.
	Expanded        int                    `json:"expanded" yaml:"expanded"`
	NewViaExpansion int                    `json:"new_via_expansion" yaml:"new_via_expansion"`
	Candidates      int                    `json:"candidate_institutions" yaml:"candidate_institutions"`
	Institutions    []types.InstitutionRef `json:"institutions,omitempty" yaml:"institutions,omitempty"`
	FellBack        bool                   `json:"fell_back,omitempty" yaml:"fell_back,omitempty"`

	// Truncated is how many researchers the limit removed.
	Truncated int `json:"truncated,omitempty" yaml:"truncated,omitempty"`

	// DiscoveryError is set when the discovery call failed and the run
	// ended with no names.
	DiscoveryError string `json:"discovery_error,omitempty" yaml:"discovery_error,omitempty"`

	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// Empty reports whether the run produced no researchers.
func (r Result) Empty() bool {
	return len(r.Researchers) == 0
}

// Finder runs the discovery and reconciliation pipeline.
type Finder struct {
	Source   Source
	Registry Registry
	Config   types.ExpansionConfig

	// Limit truncates the final list when positive.
	Limit int

	Metrics *metrics.Metrics

	// Progress receives human-readable progress lines. Nil discards them.
	Progress io.Writer
}

// Find runs the pipeline for one institution. Invalid arguments and a
// cancelled context are returned as errors; registry and discovery failures
// only shrink the result, and an empty result is a normal outcome.
func (f *Finder) Find(ctx context.Context, institution string) (Result, error) {
	institution = strings.TrimSpace(institution)
	if institution == "" {
		return Result{}, fmt.Errorf("institution name is empty")
	}
	if f.Source == nil || f.Registry == nil {
		return Result{}, fmt.Errorf("finder needs both a discovery source and a registry")
	}

	res := Result{
		RunID:       uuid.NewString(),
		Institution: institution,
		Source:      f.Source.Name(),
		StartedAt:   time.Now(),
	}

	ctx = logging.WithField(ctx, "run_id", res.RunID)
	ctx = logging.WithField(ctx, "institution", institution)
	logger := logging.FromContext(ctx)
	w := f.progress()

	// Discovery.
	fmt.Fprintf(w, "Searching for researchers at %s via %s...\n", institution, res.Source)
	raw, err := f.Source.FindCandidateNames(ctx, institution)
	f.Metrics.ObserveDiscovery(res.Source, httputil.Classify(err))
	if err != nil {
		logger.Warn().Err(err).Str("stage", "discover").Str("source", res.Source).Msg("discovery failed")
		res.DiscoveryError = err.Error()
	}
	if err := interrupted(ctx, "discover"); err != nil {
		return finish(res), err
	}

	names := ParseNames(raw)
	res.Discovered = len(names)
	f.Metrics.SetStage("discovered", len(names))
	if len(names) == 0 {
		fmt.Fprintf(w, "No researchers found.\n")
		f.Metrics.SetStage("final", 0)
		return finish(res), nil
	}
	fmt.Fprintf(w, "Found %d candidate names\n", len(names))

	// Matching.
	fmt.Fprintf(w, "Matching %d names to registry profiles...\n", len(names))
	matcher := Matcher{Registry: f.Registry}
	var matched []types.ResearcherRecord
	var unmatched []types.CandidateName
	for _, name := range names {
		if rec := matcher.Match(ctx, name); rec != nil {
			matched = append(matched, *rec)
			fmt.Fprintf(w, "  %s: matched %s\n", name, keyOrID(*rec))
		} else {
			unmatched = append(unmatched, name)
			fmt.Fprintf(w, "  %s: no match\n", name)
		}
	}
	if err := interrupted(ctx, "match"); err != nil {
		return finish(res), err
	}
	res.Matched, res.Unmatched = len(matched), len(unmatched)
	f.Metrics.SetStage("matched", len(matched))
	f.Metrics.SetStage("unmatched", len(unmatched))
	fmt.Fprintf(w, "Matched %d/%d names\n", len(matched), len(names))

	// Expansion.
	var exp Expansion
	if len(matched) > 0 {
		fmt.Fprintf(w, "Expanding via registry affiliations...\n")
		exp = Expander{Registry: f.Registry, Config: f.Config}.Expand(ctx, institution, matched)
		if exp.FellBack {
			fmt.Fprintf(w, "  warning: no institution matched %q, using all %d candidates\n", institution, exp.Candidates)
		}
		fmt.Fprintf(w, "  %d institution(s), %d current members, %d new\n",
			len(exp.Institutions), len(exp.Members), exp.NewCount)
	} else {
		fmt.Fprintf(w, "No registry matches to expand from\n")
	}
	if err := interrupted(ctx, "expand"); err != nil {
		return finish(res), err
	}
	res.Expanded = len(exp.Members)
	res.NewViaExpansion = exp.NewCount
	res.Candidates = exp.Candidates
	res.Institutions = exp.Institutions
	res.FellBack = exp.FellBack
	f.Metrics.SetStage("expanded", len(exp.Members))

	// Reconciliation.
	res.Researchers = Reconcile(unmatched, matched, exp.Members)
	if f.Limit > 0 && len(res.Researchers) > f.Limit {
		res.Truncated = len(res.Researchers) - f.Limit
		res.Researchers = res.Researchers[:f.Limit]
		fmt.Fprintf(w, "Limiting to %d researchers (found %d)\n", f.Limit, f.Limit+res.Truncated)
	}
	f.Metrics.SetStage("final", len(res.Researchers))

	logger.Info().
		Int("discovered", res.Discovered).
		Int("matched", res.Matched).
		Int("expanded", res.Expanded).
		Int("final", len(res.Researchers)).
		Msg("run complete")
	return finish(res), nil
}

// interrupted returns the wrapped context error once the run is cancelled.
func interrupted(ctx context.Context, stage string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s interrupted: %w", stage, err)
	}
	return nil
}

func finish(res Result) Result {
	res.Duration = time.Since(res.StartedAt)
	return res
}

func (f *Finder) progress() io.Writer {
	if f.Progress == nil {
		return io.Discard
	}
	return f.Progress
}

func keyOrID(r types.ResearcherRecord) string {
	if r.StableKey != "" {
		return r.StableKey
	}
	return r.CanonicalID
}
