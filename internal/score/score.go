// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score ranks candidate references for one species and selects
// a single resolved reference. The heuristic favors citations that
// contain the authority year, rewards PBDB provenance, and penalizes
// citations of modern aggregator pages.
package score

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/o957/fossil-references/pkg/types"
)

// Default values for the hand-tuned scoring constants. Overridable via
// types.ScoringConfig.
const (
	DefaultPBDBBonus     = 1000
	DefaultModernPenalty = 500
)

// DefaultModernPhrases mark a citation as a modern database page rather
// than the original describing paper. Case-insensitive substring match;
// one match triggers the penalty once.
var DefaultModernPhrases = []string{
	"accessed through",
	"fishbase",
	"world register",
	"editors",
	"database",
}

// AuthorityOrder is the fixed provider order consulted for the authority
// fields: the first provider reporting a non-empty taxonomic authority
// supplies authority, year, and author. Citation text is selected
// independently by score.
var AuthorityOrder = []types.Source{
	types.SourceGBIF,
	types.SourceZooBank,
	types.SourcePBDB,
	types.SourceWoRMS,
}

var yearToken = regexp.MustCompile(`\b(1[7-9]\d{2}|20[0-2]\d)\b`)

// MatchesYear reports whether the citation text contains targetYear as a
// literal 4-digit token. An unknown target year (0) never matches.
func MatchesYear(citation string, targetYear int) bool {
	if targetYear == 0 {
		return false
	}
	want := strconv.Itoa(targetYear)
	for _, tok := range yearToken.FindAllString(citation, -1) {
		if tok == want {
			return true
		}
	}
	return false
}

// Score computes the comparable score for one candidate against the
// target (authority) year. The year match gates the provenance and
// length terms; the modern-database penalty always applies. Candidates
// whose citation omits the target year therefore score at or below
// zero, far under any year-matched candidate.
func Score(c types.CandidateReference, targetYear int, cfg types.ScoringConfig) int {
	cfg = withDefaults(cfg)

	s := 0
	if MatchesYear(c.FullCitation, targetYear) {
		if c.Source == types.SourcePBDB {
			s += cfg.PBDBBonus
		}
		s += len(c.FullCitation)
	}

	citation := strings.ToLower(c.FullCitation)
	for _, phrase := range cfg.ModernPhrases {
		if strings.Contains(citation, phrase) {
			s -= cfg.ModernPenalty
			break
		}
	}
	return s
}

// Select reconciles the candidate set into one ResolvedReference.
//
// Authority fields come from the first candidate in AuthorityOrder with
// a non-empty authority; the citation winner is the highest-scoring
// candidate with non-empty citation text, ties resolved by the fixed
// provider priority (PBDB first). When authority and citation come from
// different providers the source label is annotated with the citation
// donor. Candidates that carry neither citation nor authority are
// ignored; if nothing usable remains, the not-found sentinel is
// returned.
func Select(species string, candidates []types.CandidateReference, cfg types.ScoringConfig) types.ResolvedReference {
	var usable []types.CandidateReference
	for _, c := range candidates {
		if !c.Unusable() {
			usable = append(usable, c)
		}
	}
	if len(usable) == 0 {
		return types.NotFound(species)
	}

	result := types.ResolvedReference{
		SearchTerm: species,
		PaperLink:  types.PaperLinkUnavailable,
	}

	authority := pickAuthority(usable)
	if authority != nil {
		result.TaxonomicAuthority = authority.TaxonomicAuthority
		result.Year = authority.Year
		result.Author = authority.Author
		result.Source = string(authority.Source)
	}

	targetYear := 0
	if authority != nil {
		targetYear = authority.Year
	}

	winner := pickCitation(usable, targetYear, cfg)
	if winner != nil {
		result.FullCitation = winner.FullCitation
		result.YearMismatch = !MatchesYear(winner.FullCitation, targetYear)
		result.DOI = winner.DOI

		switch {
		case authority == nil:
			result.Source = string(winner.Source)
			result.Year = winner.Year
			result.Author = winner.Author
		case winner.Source != authority.Source:
			result.Source = fmt.Sprintf("%s (ref: %s)", authority.Source, winner.Source)
		}
	}

	if result.DOI == "" && authority != nil {
		result.DOI = authority.DOI
	}
	if result.DOI != "" {
		result.PaperLink = "https://doi.org/" + result.DOI
	}
	return result
}

// pickAuthority returns the first candidate, in AuthorityOrder, with a
// non-empty taxonomic authority.
func pickAuthority(candidates []types.CandidateReference) *types.CandidateReference {
	for _, source := range AuthorityOrder {
		for i := range candidates {
			if candidates[i].Source == source && candidates[i].TaxonomicAuthority != "" {
				return &candidates[i]
			}
		}
	}
	return nil
}

// pickCitation returns the highest-scoring candidate with non-empty
// citation text, or nil when no candidate has one. Iteration follows the
// fixed provider priority so that exact score ties go to the earlier
// provider (PBDB first).
func pickCitation(candidates []types.CandidateReference, targetYear int, cfg types.ScoringConfig) *types.CandidateReference {
	withCitation := make([]types.CandidateReference, 0, len(candidates))
	for _, c := range candidates {
		if c.FullCitation != "" {
			withCitation = append(withCitation, c)
		}
	}
	if len(withCitation) == 0 {
		return nil
	}

	sort.SliceStable(withCitation, func(i, j int) bool {
		return priorityIndex(withCitation[i].Source) < priorityIndex(withCitation[j].Source)
	})

	best := 0
	bestScore := Score(withCitation[0], targetYear, cfg)
	for i := 1; i < len(withCitation); i++ {
		if s := Score(withCitation[i], targetYear, cfg); s > bestScore {
			best, bestScore = i, s
		}
	}
	return &withCitation[best]
}

func priorityIndex(s types.Source) int {
	for i, p := range types.ProviderPriority {
		if p == s {
			return i
		}
	}
	return len(types.ProviderPriority)
}

func withDefaults(cfg types.ScoringConfig) types.ScoringConfig {
	if cfg.PBDBBonus == 0 {
		cfg.PBDBBonus = DefaultPBDBBonus
	}
	if cfg.ModernPenalty == 0 {
		cfg.ModernPenalty = DefaultModernPenalty
	}
	if len(cfg.ModernPhrases) == 0 {
		cfg.ModernPhrases = DefaultModernPhrases
	}
	return cfg
}
