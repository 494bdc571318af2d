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

// wormsBase is the WoRMS REST API base URL. Declared as a var so tests
// can substitute an httptest server.
var wormsBase = "https://www.marinespecies.org/rest"

// WoRMS queries the World Register of Marine Species. Its citation field
// frequently cites the register itself rather than the original paper,
// which the scoring penalty accounts for.
type WoRMS struct {
	Client *http.Client
}

// Name returns the provider identifier.
func (p *WoRMS) Name() types.Source { return types.SourceWoRMS }

// Lookup fuzzy-matches the name to an Aphia record and reads the full
// record for its authority and citation. Returns (nil, nil) when WoRMS
// has no match. A 204 from the match endpoint also means no match.
func (p *WoRMS) Lookup(ctx context.Context, species string, cfg types.ProvidersConfig) (*types.CandidateReference, error) {
	params := url.Values{
		"scientificnames[]": {species},
		"marine_only":       {"false"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		wormsBase+"/AphiaRecordsByMatchNames?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("WoRMS API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("WoRMS API returned HTTP %d", resp.StatusCode)
	}

	// The match endpoint returns one list of matches per queried name.
	var matches [][]wormsRecord
	if err := json.NewDecoder(resp.Body).Decode(&matches); err != nil {
		return nil, fmt.Errorf("parsing WoRMS response: %w", err)
	}
	if len(matches) == 0 || len(matches[0]) == 0 {
		return nil, nil
	}

	record, err := p.fetchRecord(ctx, matches[0][0].AphiaID, cfg)
	if err != nil {
		return nil, err
	}

	return &types.CandidateReference{
		Source:             types.SourceWoRMS,
		TaxonomicAuthority: record.Authority,
		Year:               ExtractYear(record.Authority),
		Author:             ExtractAuthor(record.Authority),
		FullCitation:       record.Citation,
	}, nil
}

// fetchRecord reads the full Aphia record, which carries the citation.
func (p *WoRMS) fetchRecord(ctx context.Context, aphiaID int, cfg types.ProvidersConfig) (*wormsRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/AphiaRecordByAphiaID/%d", wormsBase, aphiaID), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("WoRMS record request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("WoRMS record returned HTTP %d", resp.StatusCode)
	}

	var record wormsRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("parsing WoRMS record: %w", err)
	}
	return &record, nil
}

// WoRMS API JSON structures.
type wormsRecord struct {
	AphiaID        int    `json:"AphiaID"`
	ScientificName string `json:"scientificname"`
	Authority      string `json:"authority"`
	Citation       string `json:"citation"`
}
