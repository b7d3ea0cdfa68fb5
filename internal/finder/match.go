// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package finder

import (
	"context"

	"github.com/wevbarker/sauron/internal/httputil"
	"github.com/wevbarker/sauron/internal/logging"
	"github.com/wevbarker/sauron/pkg/types"
)

// Matcher maps candidate names to registry identities.
type Matcher struct {
	Registry Registry
}

// Match returns the registry's top hit for name, or nil when there is no
// hit, the hit has no canonical id, or the lookup fails. Failures are
// logged and treated as unmatched. The returned record carries the
// candidate name as its display name.
func (m Matcher) Match(ctx context.Context, name types.CandidateName) *types.ResearcherRecord {
	logger := logging.FromContext(ctx)

	rec, err := m.Registry.SearchAuthorByName(ctx, string(name))
	if err != nil {
		logger.Warn().Err(err).
			Str("stage", "match").
			Str("name", string(name)).
			Str("outcome", httputil.Classify(err)).
			Msg("registry search failed, treating as unmatched")
		return nil
	}
	if rec == nil || rec.CanonicalID == "" {
		logger.Debug().Str("stage", "match").Str("name", string(name)).Msg("no registry match")
		return nil
	}

	out := *rec
	out.DisplayName = string(name)
	logger.Debug().
		Str("stage", "match").
		Str("name", string(name)).
		Str("id", out.CanonicalID).
		Str("bai", out.StableKey).
		Msg("matched")
	return &out
}
