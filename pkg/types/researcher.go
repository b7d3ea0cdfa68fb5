// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the sauron pipeline:
// researcher records, registry institution references, affiliation edges,
// and per-component configuration.
package types

// CandidateName is a string believed to denote a person. It carries no
// identity guarantee until it is matched against the registry.
type CandidateName string

// ResearcherRecord is one researcher in the pipeline output. Records are
// created by the matcher or the expander and only modified by the
// reconciler.
type ResearcherRecord struct {
	// DisplayName is the name shown in reports. For matched records this is
	// the discovered name; for expanded records it is the registry's
	// preferred name.
	DisplayName string `json:"display_name" yaml:"display_name"`

	// CanonicalID is the registry control number (e.g. "1012345").
	CanonicalID string `json:"canonical_id,omitempty" yaml:"canonical_id,omitempty"`

	// StableKey is the schema-qualified author identifier (INSPIRE BAI,
	// e.g. "J.A.Smith.1"). It is the sole dedup key.
	StableKey string `json:"stable_key,omitempty" yaml:"stable_key,omitempty"`

	// ProfileURL links to the registry profile page.
	ProfileURL string `json:"profile_url,omitempty" yaml:"profile_url,omitempty"`

	// PublicationCount is the number of papers the registry attributes to
	// this author.
	PublicationCount int `json:"publication_count" yaml:"publication_count"`
}

// HasStableKey reports whether the record can be deduplicated.
func (r ResearcherRecord) HasStableKey() bool {
	return r.StableKey != ""
}

// IsMatched reports whether the record carries a registry identity.
func (r ResearcherRecord) IsMatched() bool {
	return r.CanonicalID != ""
}

// InstitutionRef is the registry's opaque identifier for an institution,
// distinct from its display name.
type InstitutionRef string

// AffiliationEdge links a researcher to an institution. Only edges with
// Current set participate in expansion.
type AffiliationEdge struct {
	StableKey   string         `json:"stable_key,omitempty" yaml:"stable_key,omitempty"`
	Institution InstitutionRef `json:"institution" yaml:"institution"`
	Current     bool           `json:"current" yaml:"current"`
}

// AuthorProfile is the subset of a registry author profile the expander
// needs.
type AuthorProfile struct {
	CanonicalID  string            `json:"canonical_id" yaml:"canonical_id"`
	Affiliations []AffiliationEdge `json:"affiliations" yaml:"affiliations"`
}

// CurrentInstitutions returns the refs of every current affiliation, in
// profile order, without duplicates.
func (p AuthorProfile) CurrentInstitutions() []InstitutionRef {
	seen := make(map[InstitutionRef]bool)
	var refs []InstitutionRef
	for _, a := range p.Affiliations {
		if !a.Current || a.Institution == "" || seen[a.Institution] {
			continue
		}
		seen[a.Institution] = true
		refs = append(refs, a.Institution)
	}
	return refs
}

// Member is a researcher returned by an institution membership query
// together with the affiliation edges the registry reported for them.
type Member struct {
	Record       ResearcherRecord  `json:"record" yaml:"record"`
	Affiliations []AffiliationEdge `json:"affiliations" yaml:"affiliations"`
}

// CurrentAt reports whether the member holds a current position at exactly
// the given institution.
func (m Member) CurrentAt(ref InstitutionRef) bool {
	for _, a := range m.Affiliations {
		if a.Current && a.Institution == ref {
			return true
		}
	}
	return false
}
