// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolver orchestrates a species lookup: cache check, provider
// fan-out, candidate selection, DOI enrichment, and cache write-back.
package resolver

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/o957/fossil-references/internal/provider"
	"github.com/o957/fossil-references/internal/score"
	"github.com/o957/fossil-references/pkg/types"
)

// Store is the cache surface the resolver needs.
type Store interface {
	Get(ctx context.Context, name string) (*types.ResolvedReference, error)
	Put(ctx context.Context, name string, ref types.ResolvedReference) error
}

// Enricher finds a DOI for a selected citation. Implemented by the
// crossref client.
type Enricher interface {
	Enrich(ctx context.Context, citation, author string, year int) (string, error)
}

// Resolver resolves species names to original-description references.
type Resolver struct {
	Store     Store
	Providers []provider.Provider
	Scoring   types.ScoringConfig
	Lookup    types.ProvidersConfig

	// Enricher is optional; nil disables DOI enrichment.
	Enricher Enricher

	// Warn receives diagnostic warnings (provider failures, cache write
	// failures). Defaults to io.Discard when nil.
	Warn io.Writer
}

// Outcome distinguishes how a resolution was satisfied.
type Outcome int

const (
	OutcomeCached Outcome = iota
	OutcomeResolved
	OutcomeNotFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCached:
		return "cached"
	case OutcomeResolved:
		return "resolved"
	default:
		return "not found"
	}
}

// Resolve returns the reference for the species name. A cached entry is
// returned as-is, including cached not-found sentinels. Otherwise all
// enabled providers are queried concurrently, one candidate is selected,
// and the result is written back to the cache.
//
// A cache read failure is fatal (silent re-querying would hide a broken
// cache); a cache write failure degrades to a warning so the caller
// still gets the resolved reference.
func (r *Resolver) Resolve(ctx context.Context, name string) (types.ResolvedReference, Outcome, error) {
	warn := r.Warn
	if warn == nil {
		warn = io.Discard
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return types.ResolvedReference{}, OutcomeNotFound, fmt.Errorf("empty species name")
	}

	if r.Store != nil {
		cached, err := r.Store.Get(ctx, name)
		if err != nil {
			return types.ResolvedReference{}, OutcomeNotFound, fmt.Errorf("reading cache: %w", err)
		}
		if cached != nil {
			return *cached, OutcomeCached, nil
		}
	}

	candidates := provider.Collect(ctx, r.Providers, name, r.Lookup, warn)
	result := score.Select(name, candidates, r.Scoring)

	// Nothing usable: report not found without caching, so a later run
	// can retry once providers recover.
	if !result.Found() {
		return result, OutcomeNotFound, nil
	}

	if result.DOI == "" && r.Enricher != nil {
		doi, err := r.Enricher.Enrich(ctx, result.FullCitation, result.Author, result.Year)
		if err != nil {
			fmt.Fprintf(warn, "warning: DOI enrichment failed for %s: %v\n", name, err)
		} else if doi != "" {
			result.DOI = doi
			result.PaperLink = "https://doi.org/" + doi
		}
	}

	if r.Store != nil {
		if err := r.Store.Put(ctx, name, result); err != nil {
			fmt.Fprintf(warn, "warning: cache write failed for %s: %v\n", name, err)
		}
	}
	return result, OutcomeResolved, nil
}
