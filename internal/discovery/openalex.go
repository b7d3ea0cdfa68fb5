// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discovery

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wevbarker/sauron/internal/httputil"
	"github.com/wevbarker/sauron/internal/logging"
)

// openAlexBase is the OpenAlex API root. Declared as a var so tests can
// substitute an httptest server.
var openAlexBase = "https://api.openalex.org"

const (
	openAlexService = "OpenAlex API"

	// openAlexMaxPage is the largest per_page OpenAlex accepts.
	openAlexMaxPage = 200
)

// OpenAlexSource lists the authors whose last known institution is the
// best OpenAlex match for the institution name. It needs no API key.
type OpenAlexSource struct {
	Client *http.Client

	// Email is sent as the mailto parameter for polite pool access.
	Email     string
	UserAgent string
	Timeout   time.Duration

	// MaxAuthors caps the listing (default and maximum 200).
	MaxAuthors int
}

type openAlexInstitutions struct {
	Results []struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	} `json:"results"`
}

type openAlexAuthors struct {
	Results []struct {
		DisplayName string `json:"display_name"`
	} `json:"results"`
}

func (o *OpenAlexSource) Name() string { return "openalex" }

// FindCandidateNames returns one author name per line, most prolific first.
// An institution OpenAlex does not know yields empty text.
func (o *OpenAlexSource) FindCandidateNames(ctx context.Context, institution string) (string, error) {
	params := url.Values{
		"search":   {institution},
		"per_page": {"1"},
	}
	o.polite(params)

	var inst openAlexInstitutions
	if err := o.get(ctx, "/institutions", params, &inst); err != nil {
		return "", err
	}
	if len(inst.Results) == 0 || inst.Results[0].ID == "" {
		return "", nil
	}
	id := inst.Results[0].ID
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	logger := logging.FromContext(ctx)
	logger.Debug().
		Str("openalex_id", id).
		Str("openalex_name", inst.Results[0].DisplayName).
		Msg("resolved institution")

	limit := o.MaxAuthors
	if limit <= 0 || limit > openAlexMaxPage {
		limit = openAlexMaxPage
	}
	params = url.Values{
		"filter":   {"last_known_institutions.id:" + id},
		"sort":     {"works_count:desc"},
		"per_page": {strconv.Itoa(limit)},
		"select":   {"display_name"},
	}
	o.polite(params)

	var authors openAlexAuthors
	if err := o.get(ctx, "/authors", params, &authors); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, a := range authors.Results {
		if a.DisplayName != "" {
			b.WriteString(a.DisplayName)
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

func (o *OpenAlexSource) polite(params url.Values) {
	if o.Email != "" {
		params.Set("mailto", o.Email)
	}
}

func (o *OpenAlexSource) get(ctx context.Context, path string, params url.Values, v any) error {
	return httputil.GetJSON(ctx, o.Client, openAlexService, openAlexBase+path+"?"+params.Encode(), o.UserAgent, o.Timeout, v)
}
