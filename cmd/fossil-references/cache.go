// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/o957/fossil-references/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the reference cache",
	Long: `Cache manages the local SQLite reference cache. Use subcommands to show
statistics, export entries to YAML, import a previous export, or clear
the cache entirely.`,
}

func openStore(cmd *cobra.Command) (*cache.Store, error) {
	return cache.Open(loadConfig(cmd).Cache)
}

// --- stats subcommand ---

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry counts and recent resolutions",
	RunE:  runCacheStats,
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Printf("Cache: %s\n", store.Path())
	fmt.Printf("Entries: %d\n", stats.Count)
	for source, n := range stats.BySource {
		fmt.Printf("  %-24s %d\n", source, n)
	}
	if len(stats.Recent) > 0 {
		fmt.Println("Recent:")
		for _, ref := range stats.Recent {
			fmt.Printf("  %-32s %s\n", ref.SearchTerm, ref.Source)
		}
	}
	return nil
}

// --- export subcommand ---

var cacheExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all cache entries as YAML or JSON",
	Long: `Export writes every cached reference to stdout (or --output) as YAML or
JSON. YAML output round-trips through cache import.`,
	RunE: runCacheExport,
}

func runCacheExport(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	out := os.Stdout
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close()
		out = f
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "yaml", "":
		return store.ExportYAML(context.Background(), out)
	case "json":
		refs, err := store.All(context.Background())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(refs)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}

// --- import subcommand ---

var cacheImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a YAML cache export",
	Long: `Import bulk-loads entries from a YAML export. By default existing keys
are kept (incremental); --replace overwrites them instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runCacheImport,
}

func runCacheImport(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	replace, _ := cmd.Flags().GetBool("replace")
	summary, err := store.ImportYAML(context.Background(), f, !replace)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d entries: %d inserted, %d skipped, %d replaced\n",
		summary.Total(), summary.Inserted, summary.Skipped, summary.Replaced)
	return nil
}

// --- clear subcommand ---

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cache entries",
	RunE:  runCacheClear,
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	confirmed, _ := cmd.Flags().GetBool("yes")
	if !confirmed {
		return fmt.Errorf("refusing to clear the cache without --yes")
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(context.Background()); err != nil {
		return err
	}
	fmt.Println("Cache cleared.")
	return nil
}

func init() {
	cacheStatsCmd.Flags().Bool("json", false, "output statistics as JSON")
	cacheExportCmd.Flags().StringP("output", "o", "", "write the export to a file instead of stdout")
	cacheExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	cacheImportCmd.Flags().Bool("replace", false, "overwrite existing entries instead of keeping them")
	cacheClearCmd.Flags().Bool("yes", false, "confirm clearing the cache")

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheExportCmd)
	cacheCmd.AddCommand(cacheImportCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	rootCmd.AddCommand(cacheCmd)
}
