// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inspire queries the INSPIRE-HEP REST API for author identities,
// author affiliation histories, institution names, and institution
// membership.
//
// Registry responses are loosely shaped: any field may be missing or null.
// Every response struct in this package uses pointer or slice fields and
// every access goes through a presence check. Control numbers are the one
// field accepted as either a string or a number; any other type mismatch
// fails the decode.
package inspire

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wevbarker/sauron/internal/httputil"
	"github.com/wevbarker/sauron/internal/metrics"
	"github.com/wevbarker/sauron/pkg/types"
)

// apiBase is the INSPIRE REST root used when the config leaves BaseURL empty.
var apiBase = "https://inspirehep.net/api"

// profileBase prefixes control numbers to build profile links when the
// config leaves ProfileBaseURL empty.
var profileBase = "https://inspirehep.net/authors/"

// BAISchema is the identifier schema accepted as a stable key. Other
// schemas attached to an author (ORCID, INSPIRE ID, ...) are ignored.
const BAISchema = "INSPIRE BAI"

const serviceName = "INSPIRE API"

// Operation names used in metrics.
const (
	OpSearchAuthor   = "search_author"
	OpAuthorProfile  = "author_profile"
	OpInstitution    = "institution_name"
	OpListMembers    = "list_members"
	defaultPageLimit = 250
)

// Client talks to the INSPIRE-HEP API. It performs exactly one attempt per
// call; failures are returned to the caller.
type Client struct {
	Client  *http.Client
	Config  types.RegistryConfig
	Metrics *metrics.Metrics
}

// NewClient returns a Client using cfg. A nil httpClient gets one with
// cfg.Timeout.
func NewClient(httpClient *http.Client, cfg types.RegistryConfig, m *metrics.Metrics) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{Client: httpClient, Config: cfg, Metrics: m}
}

// SearchAuthorByName returns the registry's top-ranked author for a
// free-text name query, or nil when there is no hit. Only one result is
// requested; no disambiguation beyond the registry's own relevance order.
func (c *Client) SearchAuthorByName(ctx context.Context, name string) (rec *types.ResearcherRecord, err error) {
	defer c.observe(OpSearchAuthor, time.Now(), &err)

	params := url.Values{
		"q":    {name},
		"size": {"1"},
	}
	var sr searchResponse
	if err := c.get(ctx, "/authors?"+params.Encode(), c.Config.LookupTimeout, &sr); err != nil {
		return nil, err
	}

	hits := sr.hits()
	if len(hits) == 0 {
		return nil, nil
	}
	r := c.recordFromHit(hits[0])
	return &r, nil
}

// GetAuthorProfile fetches an author's full profile and returns its
// affiliation edges.
func (c *Client) GetAuthorProfile(ctx context.Context, canonicalID string) (profile types.AuthorProfile, err error) {
	defer c.observe(OpAuthorProfile, time.Now(), &err)

	if canonicalID == "" {
		return types.AuthorProfile{}, fmt.Errorf("empty author id")
	}

	var hit authorHit
	if err := c.get(ctx, "/authors/"+url.PathEscape(canonicalID), c.Config.LookupTimeout, &hit); err != nil {
		return types.AuthorProfile{}, err
	}

	profile = types.AuthorProfile{CanonicalID: canonicalID}
	if hit.Metadata != nil {
		profile.Affiliations = edges(hit.Metadata.bai(), hit.Metadata.Positions)
	}
	return profile, nil
}

// GetInstitutionName resolves an institution ref to its display name. It
// prefers the legacy ICN (the short name INSPIRE shows on records) and falls
// back to the institution hierarchy names. An institution with no name at
// all is an error.
func (c *Client) GetInstitutionName(ctx context.Context, ref types.InstitutionRef) (name string, err error) {
	defer c.observe(OpInstitution, time.Now(), &err)

	if ref == "" {
		return "", fmt.Errorf("empty institution ref")
	}

	var ir institutionResponse
	if err := c.get(ctx, "/institutions/"+url.PathEscape(string(ref)), c.Config.LookupTimeout, &ir); err != nil {
		return "", err
	}

	if n := ir.displayName(); n != "" {
		return n, nil
	}
	return "", fmt.Errorf("institution %s has no name", ref)
}

// ListCurrentMembers returns up to limit authors whose position history
// references the institution, most recent first, together with every
// affiliation edge the registry reports for them. Filtering to current
// positions at this institution is the caller's job.
func (c *Client) ListCurrentMembers(ctx context.Context, ref types.InstitutionRef, limit int) (members []types.Member, err error) {
	defer c.observe(OpListMembers, time.Now(), &err)

	if ref == "" {
		return nil, fmt.Errorf("empty institution ref")
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}

	params := url.Values{
		"q":    {"positions.record.$ref:" + string(ref)},
		"size": {strconv.Itoa(limit)},
		"sort": {"mostrecent"},
	}
	var sr searchResponse
	if err := c.get(ctx, "/authors?"+params.Encode(), c.Config.MembersTimeout, &sr); err != nil {
		return nil, err
	}

	for _, hit := range sr.hits() {
		m := types.Member{Record: c.recordFromHit(hit)}
		if hit.Metadata != nil {
			m.Affiliations = edges(m.Record.StableKey, hit.Metadata.Positions)
		}
		members = append(members, m)
	}
	return members, nil
}

func (c *Client) get(ctx context.Context, path string, timeout time.Duration, v any) error {
	base := strings.TrimSuffix(c.Config.BaseURL, "/")
	if base == "" {
		base = apiBase
	}
	return httputil.GetJSON(ctx, c.Client, serviceName, base+path, c.Config.UserAgent, timeout, v)
}

func (c *Client) observe(op string, start time.Time, err *error) {
	c.Metrics.ObserveRegistry(op, httputil.Classify(*err), time.Since(start))
}

// recordFromHit builds a ResearcherRecord from a search hit. The display
// name is the registry's preferred name, falling back to the indexed name.
func (c *Client) recordFromHit(hit authorHit) types.ResearcherRecord {
	id := hit.controlNumber()
	r := types.ResearcherRecord{CanonicalID: id}
	if id != "" {
		base := c.Config.ProfileBaseURL
		if base == "" {
			base = profileBase
		}
		r.ProfileURL = base + id
	}

	md := hit.Metadata
	if md == nil {
		return r
	}
	r.StableKey = md.bai()
	r.DisplayName = md.displayName()
	if md.NumberOfPapers != nil && *md.NumberOfPapers > 0 {
		r.PublicationCount = *md.NumberOfPapers
	}
	return r
}

// edges converts registry positions into affiliation edges. Positions
// without an institution record link are skipped.
func edges(stableKey string, positions []position) []types.AffiliationEdge {
	var out []types.AffiliationEdge
	for _, p := range positions {
		if p.Record == nil || p.Record.Ref == nil {
			continue
		}
		ref, ok := InstitutionRefFromURL(*p.Record.Ref)
		if !ok {
			continue
		}
		out = append(out, types.AffiliationEdge{
			StableKey:   stableKey,
			Institution: ref,
			Current:     p.Current != nil && *p.Current,
		})
	}
	return out
}

// InstitutionRefFromURL extracts the institution control number from a
// record link such as "https://inspirehep.net/api/institutions/902990".
func InstitutionRefFromURL(ref string) (types.InstitutionRef, bool) {
	const marker = "/institutions/"
	i := strings.LastIndex(ref, marker)
	if i < 0 {
		return "", false
	}
	id := strings.Trim(ref[i+len(marker):], "/")
	if id == "" || strings.ContainsAny(id, "/?#") {
		return "", false
	}
	return types.InstitutionRef(id), true
}
