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

// zoobankBase is the ZooBank API base URL. Declared as a var so tests
// can substitute an httptest server.
var zoobankBase = "https://zoobank.org"

// ZooBank queries the official ICZN name registry. When a name is
// registered it carries the original publication directly.
type ZooBank struct {
	Client *http.Client
}

// Name returns the provider identifier.
func (p *ZooBank) Name() types.Source { return types.SourceZooBank }

// Lookup performs an exact name search. Returns (nil, nil) when the
// registry has no entry for the name.
func (p *ZooBank) Lookup(ctx context.Context, species string, cfg types.ProvidersConfig) (*types.CandidateReference, error) {
	params := url.Values{
		"name":   {species},
		"exact":  {"true"},
		"format": {"json"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		zoobankBase+"/NomenclatorZoologicus/api/name/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ZooBank API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ZooBank API returned HTTP %d", resp.StatusCode)
	}

	var records []zoobankRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("parsing ZooBank response: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	record := records[0]
	year := ExtractYear(record.AuthorshipYear)
	if year == 0 {
		year = ExtractYear(record.Authorship)
	}

	return &types.CandidateReference{
		Source:             types.SourceZooBank,
		TaxonomicAuthority: record.Authorship,
		Year:               year,
		Author:             ExtractAuthor(record.Authorship),
		FullCitation:       record.OriginalPublication,
		DOI:                record.DOI,
	}, nil
}

// ZooBank API JSON structures.
type zoobankRecord struct {
	Name                string `json:"name"`
	Authorship          string `json:"authorship"`
	AuthorshipYear      string `json:"authorship_year"`
	OriginalPublication string `json:"original_publication"`
	DOI                 string `json:"doi"`
	LSID                string `json:"lsid"`
}
