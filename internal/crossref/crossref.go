// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crossref looks up DOIs for selected citations via the CrossRef
// works API. Enrichment is best-effort: any failure leaves the resolved
// reference without a DOI rather than failing the resolution.
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/o957/fossil-references/internal/httputil"
)

// crossrefBase is the CrossRef API base URL. Declared as a var so tests
// can substitute an httptest server.
var crossrefBase = "https://api.crossref.org"

const searchRows = 10

// Minimum number of leading title words that must appear in a CrossRef
// hit's title before we trust its DOI.
const matchWords = 3

// Client queries the CrossRef works API.
type Client struct {
	HTTP *http.Client

	// Mailto joins the polite pool when set; CrossRef gives polite
	// requests better rate limits.
	Mailto string

	UserAgent string
}

// Enrich searches CrossRef for the publication behind the citation and
// returns its DOI, or "" when no confident match exists. The citation's
// leading segment (up to the first period after the author block) is
// used as the title query, filtered by publication year when known.
func (c *Client) Enrich(ctx context.Context, citation, author string, year int) (string, error) {
	title := titleFromCitation(citation)
	if title == "" {
		return "", nil
	}

	params := url.Values{
		"query.bibliographic": {title},
		"rows":                {strconv.Itoa(searchRows)},
	}
	if author != "" {
		params.Set("query.author", author)
	}
	if year != 0 {
		params.Set("filter", fmt.Sprintf("from-pub-date:%d-01-01,until-pub-date:%d-12-31", year, year))
	}
	if c.Mailto != "" {
		params.Set("mailto", c.Mailto)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		crossrefBase+"/works?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return "", fmt.Errorf("CrossRef API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("CrossRef API returned HTTP %d", resp.StatusCode)
	}

	var body worksResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("parsing CrossRef response: %w", err)
	}

	for _, item := range body.Message.Items {
		if item.DOI == "" || len(item.Title) == 0 {
			continue
		}
		if titleMatches(title, item.Title[0]) {
			return item.DOI, nil
		}
	}
	return "", nil
}

// titleFromCitation extracts the probable work title: the text after the
// year segment and before the following period. Citations in the corpus
// follow "Author(s). Year. Title. Venue details" order.
func titleFromCitation(citation string) string {
	parts := strings.Split(citation, ".")
	for i, part := range parts {
		trimmed := strings.TrimSpace(part)
		if len(trimmed) == 4 && isYearToken(trimmed) && i+1 < len(parts) {
			return strings.TrimSpace(parts[i+1])
		}
	}
	// No year segment; fall back to the longest period-delimited segment.
	longest := ""
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); len(trimmed) > len(longest) {
			longest = trimmed
		}
	}
	return longest
}

// titleMatches checks word overlap between the query title and a hit
// title: the first matchWords words of the query (or all of them for
// short titles) must each appear in the hit, case-insensitively.
func titleMatches(query, hit string) bool {
	words := strings.Fields(strings.ToLower(query))
	need := matchWords
	if len(words) < need {
		need = len(words)
	}
	if need == 0 {
		return false
	}
	hitLower := strings.ToLower(hit)
	for _, w := range words[:need] {
		if !strings.Contains(hitLower, w) {
			return false
		}
	}
	return true
}

func isYearToken(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CrossRef API JSON structures.
type worksResponse struct {
	Message struct {
		Items []workItem `json:"items"`
	} `json:"message"`
}

type workItem struct {
	DOI   string   `json:"DOI"`
	Title []string `json:"title"`
}
