// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package finder

import (
	"context"
	"fmt"

	"github.com/wevbarker/sauron/pkg/types"
)

// fakeRegistry is an in-memory Registry that records every call.
type fakeRegistry struct {
	search       map[string]*types.ResearcherRecord
	searchErr    map[string]error
	profiles     map[string]types.AuthorProfile
	profileErr   map[string]error
	institutions map[types.InstitutionRef]string
	members      map[types.InstitutionRef][]types.Member
	memberErr    map[types.InstitutionRef]error

	calls []string
}

func (f *fakeRegistry) SearchAuthorByName(_ context.Context, name string) (*types.ResearcherRecord, error) {
	f.calls = append(f.calls, "search:"+name)
	if err := f.searchErr[name]; err != nil {
		return nil, err
	}
	if r, ok := f.search[name]; ok && r != nil {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRegistry) GetAuthorProfile(_ context.Context, id string) (types.AuthorProfile, error) {
	f.calls = append(f.calls, "profile:"+id)
	if err := f.profileErr[id]; err != nil {
		return types.AuthorProfile{}, err
	}
	p, ok := f.profiles[id]
	if !ok {
		return types.AuthorProfile{}, fmt.Errorf("author %s not found", id)
	}
	return p, nil
}

func (f *fakeRegistry) GetInstitutionName(_ context.Context, ref types.InstitutionRef) (string, error) {
	f.calls = append(f.calls, "institution:"+string(ref))
	name, ok := f.institutions[ref]
	if !ok {
		return "", fmt.Errorf("institution %s not found", ref)
	}
	return name, nil
}

func (f *fakeRegistry) ListCurrentMembers(_ context.Context, ref types.InstitutionRef, limit int) ([]types.Member, error) {
	f.calls = append(f.calls, fmt.Sprintf("members:%s:%d", ref, limit))
	if err := f.memberErr[ref]; err != nil {
		return nil, err
	}
	return f.members[ref], nil
}

func (f *fakeRegistry) callsWithPrefix(prefix string) []string {
	var out []string
	for _, c := range f.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			out = append(out, c)
		}
	}
	return out
}

// fakeSource returns fixed discovery text.
type fakeSource struct {
	text  string
	err   error
	calls int
}

func (s *fakeSource) Name() string { return "fake" }

func (s *fakeSource) FindCandidateNames(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.text, s.err
}

func current(key string, refs ...types.InstitutionRef) []types.AffiliationEdge {
	var out []types.AffiliationEdge
	for _, r := range refs {
		out = append(out, types.AffiliationEdge{StableKey: key, Institution: r, Current: true})
	}
	return out
}

func member(name, key, id string, pubs int, edges ...types.AffiliationEdge) types.Member {
	return types.Member{
		Record: types.ResearcherRecord{
			DisplayName:      name,
			CanonicalID:      id,
			StableKey:        key,
			ProfileURL:       "https://inspirehep.net/authors/" + id,
			PublicationCount: pubs,
		},
		Affiliations: edges,
	}
}
