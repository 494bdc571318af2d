// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the fossil-references CLI.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/o957/fossil-references/internal/cache"
	"github.com/o957/fossil-references/internal/crossref"
	"github.com/o957/fossil-references/internal/provider"
	"github.com/o957/fossil-references/internal/resolver"
	"github.com/o957/fossil-references/internal/secrets"
	"github.com/o957/fossil-references/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, else the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the fossil-references CLI.
var rootCmd = &cobra.Command{
	Use:   "fossil-references",
	Short: "Resolve species names to original taxonomic description references",
	Long: `fossil-references finds the original description reference for a species
name by querying nomenclature databases (PBDB, GBIF, WoRMS, ZooBank),
reconciling their answers, and caching the result locally.

Use resolve for single names, populate for bulk species lists, and cache
for cache maintenance.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; environment beats it when both are set.
		_ = godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./fossil-references.yaml or ~/.config/fossil-references/config.yaml)")
	rootCmd.PersistentFlags().String("cache-path", "", "cache database file (default: data/references.db)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("fossil-references")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "fossil-references"))
		}
	}

	viper.SetEnvPrefix("FOSSIL_REFERENCES")
	viper.AutomaticEnv()

	viper.SetDefault("http.timeout", "30s")
	viper.SetDefault("http.user_agent", "fossil-references/"+version)
	viper.SetDefault("providers.enable_pbdb", true)
	viper.SetDefault("providers.enable_gbif", true)
	viper.SetDefault("providers.enable_worms", true)
	viper.SetDefault("providers.enable_zoobank", true)
	viper.SetDefault("cache.path", "data/references.db")
	viper.SetDefault("crossref.enable", true)
	viper.SetDefault("populate.rate_per_second", 2.0)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig materializes the viper state into the typed config.
func loadConfig(cmd *cobra.Command) types.Config {
	httpCfg := types.HTTPConfig{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: viper.GetString("http.user_agent"),
	}

	cachePath, _ := cmd.Flags().GetString("cache-path")
	if cachePath == "" {
		cachePath = viper.GetString("cache.path")
	}

	return types.Config{
		Providers: types.ProvidersConfig{
			HTTPConfig:    httpCfg,
			EnablePBDB:    viper.GetBool("providers.enable_pbdb"),
			EnableGBIF:    viper.GetBool("providers.enable_gbif"),
			EnableWoRMS:   viper.GetBool("providers.enable_worms"),
			EnableZooBank: viper.GetBool("providers.enable_zoobank"),
		},
		Scoring: types.ScoringConfig{
			PBDBBonus:     viper.GetInt("scoring.pbdb_bonus"),
			ModernPenalty: viper.GetInt("scoring.modern_penalty"),
			ModernPhrases: viper.GetStringSlice("scoring.modern_phrases"),
		},
		Cache: types.CacheConfig{Path: cachePath},
		CrossRef: types.CrossRefConfig{
			HTTPConfig: httpCfg,
			Enable:     viper.GetBool("crossref.enable"),
			Mailto:     secretDefault("crossref-mailto", viper.GetString("crossref.mailto")),
		},
		Populate: types.PopulateConfig{
			RatePerSecond: viper.GetFloat64("populate.rate_per_second"),
		},
	}
}

// buildResolver assembles the resolver and its cache store from config.
// The caller owns closing the returned store.
func buildResolver(cmd *cobra.Command) (*resolver.Resolver, *cache.Store, error) {
	cfg := loadConfig(cmd)

	store, err := cache.Open(cfg.Cache)
	if err != nil {
		return nil, nil, err
	}

	timeout := cfg.Providers.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	r := &resolver.Resolver{
		Store:     store,
		Providers: provider.FromConfig(client, cfg.Providers),
		Scoring:   cfg.Scoring,
		Lookup:    cfg.Providers,
		Warn:      os.Stderr,
	}
	if cfg.CrossRef.Enable {
		r.Enricher = &crossref.Client{
			HTTP:      client,
			Mailto:    cfg.CrossRef.Mailto,
			UserAgent: cfg.CrossRef.UserAgent,
		}
	}
	return r, store, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
