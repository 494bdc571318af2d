// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider adapts external nomenclature databases to a common
// candidate shape. Each adapter translates one database's response into
// zero or one CandidateReference; failures degrade to "no candidate"
// and never abort a lookup.
package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/o957/fossil-references/pkg/types"
)

// Provider queries a single external database. Each adapter (PBDB, GBIF,
// WoRMS, ZooBank) implements this interface per the Strategy pattern.
type Provider interface {
	Name() types.Source
	Lookup(ctx context.Context, species string, cfg types.ProvidersConfig) (*types.CandidateReference, error)
}

// FromConfig returns the enabled adapters sharing one HTTP client.
func FromConfig(client *http.Client, cfg types.ProvidersConfig) []Provider {
	var providers []Provider
	if cfg.EnableGBIF {
		providers = append(providers, &GBIF{Client: client})
	}
	if cfg.EnableZooBank {
		providers = append(providers, &ZooBank{Client: client})
	}
	if cfg.EnablePBDB {
		providers = append(providers, &PBDB{Client: client})
	}
	if cfg.EnableWoRMS {
		providers = append(providers, &WoRMS{Client: client})
	}
	return providers
}

// Collect fans the species lookup out to all providers concurrently and
// gathers the candidates. A failing provider is reported as a warning on
// w and contributes no candidate; ordering of the returned slice is not
// significant (selection applies its own fixed priority).
func Collect(ctx context.Context, providers []Provider, species string, cfg types.ProvidersConfig, w io.Writer) []types.CandidateReference {
	type lookupResult struct {
		candidate *types.CandidateReference
		err       error
		name      types.Source
	}

	ch := make(chan lookupResult, len(providers))
	var wg sync.WaitGroup

	for _, p := range providers {
		wg.Add(1)
		go func(p Provider) {
			defer wg.Done()
			candidate, err := p.Lookup(ctx, species, cfg)
			ch <- lookupResult{candidate: candidate, err: err, name: p.Name()}
		}(p)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var candidates []types.CandidateReference
	for lr := range ch {
		if lr.err != nil {
			fmt.Fprintf(w, "warning: provider %s failed: %v\n", lr.name, lr.err)
			continue
		}
		if lr.candidate != nil {
			candidates = append(candidates, *lr.candidate)
		}
	}
	return candidates
}
