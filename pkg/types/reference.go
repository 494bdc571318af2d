// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures for reference
// resolution: the candidate shape providers produce, the resolved
// reference the cache persists, and the configuration structs.
package types

import "time"

// Source identifies the external database a candidate came from.
type Source string

const (
	SourcePBDB    Source = "PBDB"
	SourceGBIF    Source = "GBIF"
	SourceWoRMS   Source = "WoRMS"
	SourceZooBank Source = "ZooBank"
)

// ProviderPriority is the fixed tie-break order for candidate selection.
// PBDB first: its citations are empirically the most complete original
// descriptions for fossil taxa.
var ProviderPriority = []Source{SourcePBDB, SourceGBIF, SourceWoRMS, SourceZooBank}

// PaperLinkUnavailable is the paper_link value when no DOI is known.
const PaperLinkUnavailable = "unavailable"

// CandidateReference is one provider's proposed reference for a species,
// prior to scoring. A provider yields at most one candidate per lookup.
type CandidateReference struct {
	// Source is the provenance database; never empty.
	Source Source `json:"source" yaml:"source"`

	// TaxonomicAuthority is the author/year attribution string
	// (e.g. "Woodward, 1889"). May be empty.
	TaxonomicAuthority string `json:"taxonomic_authority" yaml:"taxonomic_authority"`

	// Year is the publication year parsed from the authority; 0 = unknown.
	Year int `json:"year" yaml:"year"`

	// Author is the authority surname(s); may be empty.
	Author string `json:"author" yaml:"author"`

	// FullCitation is the provider's reference text. A candidate with an
	// empty citation is never selectable as a citation winner.
	FullCitation string `json:"full_citation" yaml:"full_citation"`

	// DOI is an optional identifier for the cited publication.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`
}

// Unusable reports whether the candidate carries neither a citation nor
// an authority and therefore cannot contribute to a resolution.
func (c CandidateReference) Unusable() bool {
	return c.FullCitation == "" && c.TaxonomicAuthority == ""
}

// ResolvedReference is the reconciled result for one species name. It is
// what the resolver returns and what the cache persists.
type ResolvedReference struct {
	// SearchTerm is the queried species name, whitespace-trimmed.
	SearchTerm string `json:"search_term" yaml:"search_term"`

	TaxonomicAuthority string `json:"taxonomic_authority" yaml:"taxonomic_authority"`
	Year               int    `json:"year" yaml:"year"`
	Author             string `json:"author" yaml:"author"`
	FullCitation       string `json:"full_citation" yaml:"full_citation"`
	DOI                string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// PaperLink is https://doi.org/<doi> when a DOI is known, else
	// "unavailable".
	PaperLink string `json:"paper_link" yaml:"paper_link"`

	// Source labels provenance. When the citation text was borrowed from
	// a different provider than the authority fields the label reads
	// "<authority-source> (ref: <citation-source>)". Empty for the
	// not-found sentinel.
	Source string `json:"source" yaml:"source"`

	// YearMismatch is set when the selected citation does not contain the
	// authority year, i.e. it is likely not the original description.
	YearMismatch bool `json:"year_mismatch" yaml:"year_mismatch"`

	// ResolvedAt is the time of the cache write. Zero for uncached results.
	ResolvedAt time.Time `json:"resolved_at,omitempty" yaml:"resolved_at,omitempty"`
}

// Found reports whether the lookup produced a usable reference. The
// not-found sentinel has an empty Source.
func (r ResolvedReference) Found() bool {
	return r.Source != ""
}

// NotFound returns the sentinel result for a species with no usable
// candidates. It is a normal outcome, not an error.
func NotFound(searchTerm string) ResolvedReference {
	return ResolvedReference{
		SearchTerm: searchTerm,
		PaperLink:  PaperLinkUnavailable,
	}
}
