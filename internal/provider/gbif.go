// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/o957/fossil-references/pkg/types"
)

// gbifBase is the GBIF API base URL. Declared as a var so tests can
// substitute an httptest server.
var gbifBase = "https://api.gbif.org/v1"

// GBIF queries the GBIF Backbone Taxonomy. GBIF tracks the original
// publication of a name in the publishedIn field.
type GBIF struct {
	Client *http.Client
}

// Name returns the provider identifier.
func (p *GBIF) Name() types.Source { return types.SourceGBIF }

// Lookup matches the species name against the backbone and reads the
// matched usage's nomenclatural fields. Returns (nil, nil) when the
// backbone has no match.
func (p *GBIF) Lookup(ctx context.Context, species string, cfg types.ProvidersConfig) (*types.CandidateReference, error) {
	params := url.Values{
		"name":   {species},
		"strict": {"false"},
	}
	var match gbifMatch
	if err := p.getJSON(ctx, gbifBase+"/species/match?"+params.Encode(), cfg, &match); err != nil {
		return nil, err
	}
	if match.MatchType == "NONE" || match.UsageKey == 0 {
		return nil, nil
	}

	var usage gbifUsage
	if err := p.getJSON(ctx, fmt.Sprintf("%s/species/%d", gbifBase, match.UsageKey), cfg, &usage); err != nil {
		return nil, err
	}

	return &types.CandidateReference{
		Source:             types.SourceGBIF,
		TaxonomicAuthority: usage.Authorship,
		Year:               ExtractYear(usage.Authorship),
		Author:             ExtractAuthor(usage.Authorship),
		FullCitation:       usage.PublishedIn,
	}, nil
}

func (p *GBIF) getJSON(ctx context.Context, reqURL string, cfg types.ProvidersConfig, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("GBIF API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GBIF API returned HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing GBIF response: %w", err)
	}
	return nil
}

// GBIF API JSON structures.
type gbifMatch struct {
	MatchType string `json:"matchType"`
	UsageKey  int    `json:"usageKey"`
}

type gbifUsage struct {
	ScientificName string `json:"scientificName"`
	Authorship     string `json:"authorship"`
	PublishedIn    string `json:"publishedIn"`
}
