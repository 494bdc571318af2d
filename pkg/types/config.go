// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "fossil-references/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ProvidersConfig holds settings for the provider adapters.
type ProvidersConfig struct {
	HTTPConfig `yaml:",inline"`

	// EnablePBDB controls whether the Paleobiology Database is queried.
	EnablePBDB bool `json:"enable_pbdb" yaml:"enable_pbdb"`

	// EnableGBIF controls whether the GBIF Backbone Taxonomy is queried.
	EnableGBIF bool `json:"enable_gbif" yaml:"enable_gbif"`

	// EnableWoRMS controls whether the World Register of Marine Species
	// is queried.
	EnableWoRMS bool `json:"enable_worms" yaml:"enable_worms"`

	// EnableZooBank controls whether ZooBank is queried.
	EnableZooBank bool `json:"enable_zoobank" yaml:"enable_zoobank"`
}

// ScoringConfig exposes the hand-tuned selection heuristic as named
// settings so the constants can be adjusted without touching core logic.
// Zero values fall back to the package defaults in internal/score.
type ScoringConfig struct {
	// PBDBBonus is added to a year-matched PBDB citation (default 1000).
	PBDBBonus int `json:"pbdb_bonus" yaml:"pbdb_bonus"`

	// ModernPenalty is subtracted once when the citation text contains
	// any modern-database phrase (default 500).
	ModernPenalty int `json:"modern_penalty" yaml:"modern_penalty"`

	// ModernPhrases are case-insensitive substrings marking a citation as
	// a modern aggregator page rather than the original paper.
	ModernPhrases []string `json:"modern_phrases" yaml:"modern_phrases"`
}

// CacheConfig holds settings for the persistent reference cache.
type CacheConfig struct {
	// Path is the SQLite database file (default "data/references.db").
	Path string `json:"path" yaml:"path"`
}

// CrossRefConfig holds settings for DOI enrichment via CrossRef.
type CrossRefConfig struct {
	HTTPConfig `yaml:",inline"`

	// Enable controls whether resolved citations lacking a DOI are
	// enriched through the CrossRef works API.
	Enable bool `json:"enable" yaml:"enable"`

	// Mailto is sent as the mailto parameter for polite pool access.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty"`
}

// PopulateConfig holds settings for bulk cache population.
type PopulateConfig struct {
	// RatePerSecond caps provider lookups during population (default 2).
	RatePerSecond float64 `json:"rate_per_second" yaml:"rate_per_second"`
}

// Config groups all component configurations.
type Config struct {
	Providers ProvidersConfig `json:"providers" yaml:"providers"`
	Scoring   ScoringConfig   `json:"scoring" yaml:"scoring"`
	Cache     CacheConfig     `json:"cache" yaml:"cache"`
	CrossRef  CrossRefConfig  `json:"crossref" yaml:"crossref"`
	Populate  PopulateConfig  `json:"populate" yaml:"populate"`
}
