// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"testing"

	"github.com/o957/fossil-references/pkg/types"
)

// --- year matching ---

func TestMatchesYear(t *testing.T) {
	tests := []struct {
		name     string
		citation string
		year     int
		want     bool
	}{
		{"year present", "A. S. Woodward. 1889. Catalogue of the fossil fishes", 1889, true},
		{"year absent", "Cat. Foss. Fish. Brit. Mus., 1", 1889, false},
		{"different year", "E. D. Cope. 1874. Review of the Vertebrata", 1889, false},
		{"year later in text", "Froese, R. (2024). World Register entry, orig. 1889", 1889, true},
		{"unknown target year", "A. S. Woodward. 1889. Catalogue", 0, false},
		{"empty citation", "", 1889, false},
		{"year as part of number", "specimen 18895 collected", 1889, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesYear(tt.citation, tt.year); got != tt.want {
				t.Errorf("MatchesYear(%q, %d) = %v, want %v", tt.citation, tt.year, got, tt.want)
			}
		})
	}
}

// --- per-candidate scoring ---

func TestScoreYearMatchGatesLengthAndProvenance(t *testing.T) {
	cfg := types.ScoringConfig{}
	matched := types.CandidateReference{
		Source:       types.SourcePBDB,
		FullCitation: "A. S. Woodward. 1889. Catalogue of the fossil fishes in the British Museum. 1:1-613",
	}
	mismatched := matched
	mismatched.FullCitation = "A. S. Woodward. 1890. Catalogue of the fossil fishes in the British Museum. 1:1-613"

	if got := Score(matched, 1889, cfg); got != DefaultPBDBBonus+len(matched.FullCitation) {
		t.Errorf("matched score = %d, want %d", got, DefaultPBDBBonus+len(matched.FullCitation))
	}
	if got := Score(mismatched, 1889, cfg); got != 0 {
		t.Errorf("mismatched score = %d, want 0 (no provenance or length terms)", got)
	}
}

func TestScoreModernPenalty(t *testing.T) {
	cfg := types.ScoringConfig{}
	clean := types.CandidateReference{
		Source:       types.SourceWoRMS,
		FullCitation: "G. Cuvier. 1829. Le Regne Animal, edition 2. 2:1-406",
	}
	tainted := clean
	tainted.FullCitation = "G. Cuvier. 1829. Le Regne Animal, accessed through the World Register. 2:1-406 pad"

	cleanScore := Score(clean, 1829, cfg)
	taintedScore := Score(tainted, 1829, cfg)
	if taintedScore >= cleanScore {
		t.Errorf("tainted score %d should be below clean score %d", taintedScore, cleanScore)
	}

	// The penalty applies once even when several phrases match.
	double := clean
	double.FullCitation = "Editors. 1829. FishBase entry, accessed through the database"
	want := len(double.FullCitation) - DefaultModernPenalty
	if got := Score(double, 1829, cfg); got != want {
		t.Errorf("multi-phrase score = %d, want %d (single penalty)", got, want)
	}
}

func TestScorePBDBBeatsEqualNonPBDB(t *testing.T) {
	cfg := types.ScoringConfig{}
	citation := "A. S. Woodward. 1889. Catalogue of the fossil fishes. 1:1-613"
	pbdb := types.CandidateReference{Source: types.SourcePBDB, FullCitation: citation}
	gbif := types.CandidateReference{Source: types.SourceGBIF, FullCitation: citation}

	if Score(pbdb, 1889, cfg) <= Score(gbif, 1889, cfg) {
		t.Error("PBDB candidate should outscore an otherwise-identical non-PBDB candidate")
	}
}

func TestScoreConfigOverrides(t *testing.T) {
	cfg := types.ScoringConfig{PBDBBonus: 10, ModernPenalty: 3, ModernPhrases: []string{"bogus"}}
	c := types.CandidateReference{Source: types.SourcePBDB, FullCitation: "X. 1900. bogus"}
	want := 10 + len(c.FullCitation) - 3
	if got := Score(c, 1900, cfg); got != want {
		t.Errorf("score with overrides = %d, want %d", got, want)
	}
}

// --- selection ---

// woodwardCandidates reproduces the reconciliation scenario where PBDB
// holds the original 1889 catalogue, GBIF only an abbreviated citation
// without a year, and WoRMS a modern register citation.
func woodwardCandidates() []types.CandidateReference {
	return []types.CandidateReference{
		{
			Source:             types.SourceGBIF,
			TaxonomicAuthority: "Woodward, 1889",
			Year:               1889,
			Author:             "Woodward",
			FullCitation:       "Cat. Foss. Fish. Brit. Mus., 1",
		},
		{
			Source:             types.SourcePBDB,
			TaxonomicAuthority: "Woodward 1889",
			Year:               1889,
			Author:             "Woodward",
			FullCitation:       "A. S. Woodward. 1889. Catalogue of the Fossil Fishes in the British Museum (Natural History). Part I. British Museum (Natural History) 1:1-613",
		},
		{
			Source:             types.SourceWoRMS,
			TaxonomicAuthority: "Woodward, 1889",
			Year:               1889,
			Author:             "Woodward",
			FullCitation:       "Froese, R. and D. Pauly. Editors. (2024). FishBase. Accessed through: World Register of Marine Species at https://www.marinespecies.org on 2024-01-01",
		},
	}
}

func TestSelectPrefersYearMatchedPBDBCitation(t *testing.T) {
	got := Select("Scapanorhynchus lewisii", woodwardCandidates(), types.ScoringConfig{})

	if !got.Found() {
		t.Fatal("expected a found result")
	}
	if got.Source != "GBIF (ref: PBDB)" {
		t.Errorf("source = %q, want %q", got.Source, "GBIF (ref: PBDB)")
	}
	if want := "A. S. Woodward. 1889."; len(got.FullCitation) == 0 || got.FullCitation[:len(want)] != want {
		t.Errorf("citation = %q, want the PBDB catalogue reference", got.FullCitation)
	}
	if got.Year != 1889 || got.Author != "Woodward" {
		t.Errorf("authority fields = (%d, %q), want (1889, Woodward)", got.Year, got.Author)
	}
	if got.YearMismatch {
		t.Error("winner contains the authority year; YearMismatch should be false")
	}
}

func TestSelectDeterministic(t *testing.T) {
	first := Select("Scapanorhynchus lewisii", woodwardCandidates(), types.ScoringConfig{})
	for i := 0; i < 10; i++ {
		again := Select("Scapanorhynchus lewisii", woodwardCandidates(), types.ScoringConfig{})
		if again != first {
			t.Fatalf("selection not deterministic: run %d produced %+v, first run %+v", i, again, first)
		}
	}
}

func TestSelectSameProviderNoAnnotation(t *testing.T) {
	candidates := []types.CandidateReference{
		{
			Source:             types.SourceGBIF,
			TaxonomicAuthority: "Agassiz, 1843",
			Year:               1843,
			Author:             "Agassiz",
			FullCitation:       "L. Agassiz. 1843. Recherches sur les poissons fossiles. 3:1-390",
		},
	}
	got := Select("Ptychodus", candidates, types.ScoringConfig{})
	if got.Source != "GBIF" {
		t.Errorf("source = %q, want plain %q when authority and citation agree", got.Source, "GBIF")
	}
}

func TestSelectTieBreakFollowsProviderPriority(t *testing.T) {
	// Identical citations from GBIF and WoRMS score identically; the
	// fixed priority order must break the tie toward GBIF. Listing WoRMS
	// first proves input order is irrelevant.
	citation := "J. Leidy. 1856. Notices of remains of extinct fishes. 8:301-302"
	candidates := []types.CandidateReference{
		{Source: types.SourceWoRMS, TaxonomicAuthority: "Leidy, 1856", Year: 1856, FullCitation: citation},
		{Source: types.SourceGBIF, TaxonomicAuthority: "Leidy, 1856", Year: 1856, FullCitation: citation},
	}
	got := Select("Enchodus", candidates, types.ScoringConfig{})
	if got.Source != "GBIF" {
		t.Errorf("source = %q, want tie broken toward GBIF", got.Source)
	}
}

func TestSelectTieBreakPrefersPBDB(t *testing.T) {
	citation := "J. Leidy. 1856. Notices of remains of extinct fishes. 8:301-302"
	candidates := []types.CandidateReference{
		{Source: types.SourceZooBank, TaxonomicAuthority: "Leidy, 1856", Year: 1856, FullCitation: citation},
		{Source: types.SourcePBDB, TaxonomicAuthority: "Leidy 1856", Year: 1856, FullCitation: citation},
	}
	got := Select("Enchodus", candidates, types.ScoringConfig{})
	// Authority comes from ZooBank (earlier in authority order); the
	// citation must come from PBDB regardless of score margin or input order.
	if got.Source != "ZooBank (ref: PBDB)" {
		t.Errorf("source = %q, want %q", got.Source, "ZooBank (ref: PBDB)")
	}
}

func TestSelectDonorCitationForEmptyAuthorityCitation(t *testing.T) {
	candidates := []types.CandidateReference{
		{
			Source:             types.SourceGBIF,
			TaxonomicAuthority: "Cope, 1874",
			Year:               1874,
			Author:             "Cope",
			// GBIF knows the authority but has no publishedIn text.
			FullCitation: "",
		},
		{
			Source:             types.SourcePBDB,
			TaxonomicAuthority: "Cope 1874",
			Year:               1874,
			Author:             "Cope",
			FullCitation:       "E. D. Cope. 1874. Review of the Vertebrata of the Cretaceous period found west of the Mississippi River. 1:3-48",
		},
	}
	got := Select("Enchodus petrosus", candidates, types.ScoringConfig{})
	if got.Source != "GBIF (ref: PBDB)" {
		t.Errorf("source = %q, want %q", got.Source, "GBIF (ref: PBDB)")
	}
	if got.FullCitation == "" {
		t.Error("citation text should be borrowed from the PBDB candidate")
	}
}

func TestSelectYearMismatchOnlyCandidates(t *testing.T) {
	candidates := []types.CandidateReference{
		{
			Source:             types.SourceWoRMS,
			TaxonomicAuthority: "Whitley, 1939",
			Year:               1939,
			Author:             "Whitley",
			FullCitation:       "Froese, R. and D. Pauly. Editors. (2024). FishBase entry",
		},
	}
	got := Select("Squalicorax", candidates, types.ScoringConfig{})
	if !got.Found() {
		t.Fatal("a mismatched citation is disadvantaged, not discarded")
	}
	if !got.YearMismatch {
		t.Error("YearMismatch should be set when the citation omits the authority year")
	}
}

func TestSelectAuthorityOnlyCandidates(t *testing.T) {
	candidates := []types.CandidateReference{
		{Source: types.SourceGBIF, TaxonomicAuthority: "Cope, 1874", Year: 1874, Author: "Cope"},
	}
	got := Select("Enchodus petrosus", candidates, types.ScoringConfig{})
	if !got.Found() {
		t.Fatal("authority without citation is still a found result")
	}
	if got.FullCitation != "" {
		t.Errorf("citation = %q, want empty", got.FullCitation)
	}
	if got.PaperLink != types.PaperLinkUnavailable {
		t.Errorf("paper link = %q, want %q", got.PaperLink, types.PaperLinkUnavailable)
	}
}

func TestSelectNothingUsable(t *testing.T) {
	if got := Select("Nihilus", nil, types.ScoringConfig{}); got.Found() {
		t.Errorf("empty candidate set should yield not-found, got %+v", got)
	}

	candidates := []types.CandidateReference{
		{Source: types.SourceGBIF},
		{Source: types.SourceWoRMS},
	}
	got := Select("Nihilus", candidates, types.ScoringConfig{})
	if got.Found() {
		t.Errorf("all-empty candidates should yield not-found, got %+v", got)
	}
	if got.SearchTerm != "Nihilus" {
		t.Errorf("sentinel keeps the search term, got %q", got.SearchTerm)
	}
}

func TestSelectDOIDerivesPaperLink(t *testing.T) {
	candidates := []types.CandidateReference{
		{
			Source:             types.SourceZooBank,
			TaxonomicAuthority: "Woodward, 1889",
			Year:               1889,
			FullCitation:       "A. S. Woodward. 1889. Catalogue of the Fossil Fishes",
			DOI:                "10.5962/bhl.title.61854",
		},
	}
	got := Select("Scapanorhynchus", candidates, types.ScoringConfig{})
	if got.PaperLink != "https://doi.org/10.5962/bhl.title.61854" {
		t.Errorf("paper link = %q, want DOI-derived link", got.PaperLink)
	}
}
