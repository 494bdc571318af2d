// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package populate drives bulk cache population from a species list,
// pacing provider traffic with a client-side rate limit.
package populate

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/time/rate"

	"github.com/o957/fossil-references/internal/resolver"
	"github.com/o957/fossil-references/pkg/types"
)

const defaultRatePerSecond = 2.0

// Resolver is the single-name resolution surface populate drives.
type Resolver interface {
	Resolve(ctx context.Context, name string) (types.ResolvedReference, resolver.Outcome, error)
}

// Skipper reports whether a species is already cached. Implemented by
// the cache store.
type Skipper interface {
	Has(ctx context.Context, name string) (bool, error)
}

// Summary counts outcomes of a population run.
type Summary struct {
	Resolved int
	Skipped  int
	NotFound int
	Failed   int
}

// Total returns the number of names processed.
func (s Summary) Total() int {
	return s.Resolved + s.Skipped + s.NotFound + s.Failed
}

func (s Summary) String() string {
	return fmt.Sprintf("%d resolved, %d already cached, %d not found, %d failed",
		s.Resolved, s.Skipped, s.NotFound, s.Failed)
}

// Run resolves each name in order, skipping names already cached and
// rate-limiting the rest. Per-name failures are reported on w and
// counted; only context cancellation aborts the run early, returning
// the partial summary alongside the context error.
func Run(ctx context.Context, res Resolver, skipper Skipper, names []string, cfg types.PopulateConfig, w io.Writer) (Summary, error) {
	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = defaultRatePerSecond
	}
	limiter := rate.NewLimiter(rate.Limit(perSecond), 1)

	var summary Summary
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}

		if skipper != nil {
			cached, err := skipper.Has(ctx, name)
			if err != nil {
				return summary, fmt.Errorf("checking cache for %s: %w", name, err)
			}
			if cached {
				summary.Skipped++
				continue
			}
		}

		// Cached names skip the limiter: only provider traffic is paced.
		if err := limiter.Wait(ctx); err != nil {
			return summary, err
		}

		ref, outcome, err := res.Resolve(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			summary.Failed++
			fmt.Fprintf(w, "warning: resolving %s: %v\n", name, err)
			continue
		}
		switch {
		case !ref.Found():
			summary.NotFound++
			fmt.Fprintf(w, "no reference found for %s\n", name)
		case outcome == resolver.OutcomeCached:
			summary.Skipped++
		default:
			summary.Resolved++
			fmt.Fprintf(w, "resolved %s via %s\n", name, ref.Source)
		}
	}
	return summary, nil
}

// LoadSpeciesFile reads one species name per line, skipping blank lines
// and lines starting with '#'.
func LoadSpeciesFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening species file: %w", err)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading species file: %w", err)
	}
	return names, nil
}
