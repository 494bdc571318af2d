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

// pbdbBase is the Paleobiology Database API base URL. Declared as a var
// so tests can substitute an httptest server.
var pbdbBase = "https://paleobiodb.org/data1.2"

// PBDB queries the Paleobiology Database. Its taxa records carry the
// full bibliographic reference of the naming publication, which for
// fossil taxa is usually the most complete original description.
type PBDB struct {
	Client *http.Client
}

// Name returns the provider identifier.
func (p *PBDB) Name() types.Source { return types.SourcePBDB }

// Lookup fetches the taxon record with attribution and reference blocks.
// Returns (nil, nil) when PBDB has no record for the name.
func (p *PBDB) Lookup(ctx context.Context, species string, cfg types.ProvidersConfig) (*types.CandidateReference, error) {
	params := url.Values{
		"name": {species},
		"show": {"attr,ref,refattr"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		pbdbBase+"/taxa/list.json?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("PBDB API request: %w", err)
	}
	defer resp.Body.Close()

	// PBDB answers unknown names with 404 rather than an empty list.
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PBDB API returned HTTP %d", resp.StatusCode)
	}

	var body pbdbResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("parsing PBDB response: %w", err)
	}
	if len(body.Records) == 0 {
		return nil, nil
	}

	record := body.Records[0]
	author := ExtractAuthor(record.Attribution)
	if author == "" && record.Reference != "" {
		// Fall back to the reference's leading author segment
		// (e.g. "E. D. Cope. 1874. Review of ...").
		author = CitationAuthor(record.Reference)
	}

	return &types.CandidateReference{
		Source:             types.SourcePBDB,
		TaxonomicAuthority: record.Attribution,
		Year:               ExtractYear(record.Attribution),
		Author:             author,
		FullCitation:       record.Reference,
		DOI:                record.DOI,
	}, nil
}

// PBDB API JSON structures (compact vocabulary).
type pbdbResponse struct {
	Records []pbdbRecord `json:"records"`
}

type pbdbRecord struct {
	Name        string `json:"nam"`
	Attribution string `json:"att"`
	Reference   string `json:"ref"`
	DOI         string `json:"doi"`
}
