// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package inspire

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// INSPIRE API JSON structures. Every field is optional.

type searchResponse struct {
	Hits *hitsEnvelope `json:"hits"`
}

func (r searchResponse) hits() []authorHit {
	if r.Hits == nil {
		return nil
	}
	return r.Hits.Hits
}

type hitsEnvelope struct {
	Hits  []authorHit `json:"hits"`
	Total *int        `json:"total"`
}

type authorHit struct {
	ID       *flexID         `json:"id"`
	Metadata *authorMetadata `json:"metadata"`
}

// controlNumber prefers the hit id and falls back to metadata.control_number.
func (h authorHit) controlNumber() string {
	if h.ID != nil && *h.ID != "" {
		return string(*h.ID)
	}
	if h.Metadata != nil && h.Metadata.ControlNumber != nil {
		return string(*h.Metadata.ControlNumber)
	}
	return ""
}

type authorMetadata struct {
	ControlNumber  *flexID     `json:"control_number"`
	Name           *authorName `json:"name"`
	IDs            []authorID  `json:"ids"`
	NumberOfPapers *int        `json:"number_of_papers"`
	Positions      []position  `json:"positions"`
}

// bai returns the first identifier whose schema is exactly BAISchema.
func (m authorMetadata) bai() string {
	for _, id := range m.IDs {
		if id.Schema == nil || id.Value == nil {
			continue
		}
		if *id.Schema == BAISchema && *id.Value != "" {
			return *id.Value
		}
	}
	return ""
}

// displayName prefers the preferred name, then the indexed value
// ("Smith, Jane" is reordered to "Jane Smith").
func (m authorMetadata) displayName() string {
	if m.Name == nil {
		return ""
	}
	if m.Name.PreferredName != nil && *m.Name.PreferredName != "" {
		return *m.Name.PreferredName
	}
	if m.Name.Value != nil {
		return reorderName(*m.Name.Value)
	}
	return ""
}

func reorderName(v string) string {
	last, first, ok := strings.Cut(v, ",")
	if !ok {
		return strings.TrimSpace(v)
	}
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	if first == "" {
		return last
	}
	return first + " " + last
}

type authorName struct {
	Value         *string `json:"value"`
	PreferredName *string `json:"preferred_name"`
}

type authorID struct {
	Schema *string `json:"schema"`
	Value  *string `json:"value"`
}

type position struct {
	Current     *bool      `json:"current"`
	Institution *string    `json:"institution"`
	Rank        *string    `json:"rank"`
	Record      *recordRef `json:"record"`
}

type recordRef struct {
	Ref *string `json:"$ref"`
}

type institutionResponse struct {
	Metadata *institutionMetadata `json:"metadata"`
}

func (r institutionResponse) displayName() string {
	md := r.Metadata
	if md == nil {
		return ""
	}
	if md.LegacyICN != nil && *md.LegacyICN != "" {
		return *md.LegacyICN
	}
	var names []string
	for _, h := range md.Hierarchy {
		if h.Name != nil && *h.Name != "" {
			names = append(names, *h.Name)
		}
	}
	return strings.Join(names, ", ")
}

type institutionMetadata struct {
	LegacyICN *string                `json:"legacy_ICN"`
	Hierarchy []institutionHierarchy `json:"institution_hierarchy"`
}

type institutionHierarchy struct {
	Name    *string `json:"name"`
	Acronym *string `json:"acronym"`
}

// flexID accepts a control number encoded as either a JSON string or a
// JSON number.
type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*f = flexID(strconv.FormatInt(i, 10))
		return nil
	}
	*f = flexID(n.String())
	return nil
}
