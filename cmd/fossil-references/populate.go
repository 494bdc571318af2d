// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/o957/fossil-references/internal/populate"
)

var populateCmd = &cobra.Command{
	Use:   "populate",
	Short: "Bulk-resolve a species list into the cache",
	Long: `Populate reads species names from a file (one per line, # comments
allowed), resolves each uncached name, and stores the results. Lookups
are rate-limited to stay polite to the upstream APIs; already-cached
names are skipped, so interrupted runs can simply be restarted.`,
	RunE: runPopulate,
}

func runPopulate(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	if file == "" {
		return fmt.Errorf("--file is required")
	}

	names, err := populate.LoadSpeciesFile(file)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("No species names in file.")
		return nil
	}

	r, store, err := buildResolver(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	cfg := loadConfig(cmd).Populate
	if ratePerSecond, _ := cmd.Flags().GetFloat64("rate"); ratePerSecond > 0 {
		cfg.RatePerSecond = ratePerSecond
	}

	// Ctrl-C stops after the in-flight lookup; the cache keeps everything
	// resolved so far.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := populate.Run(ctx, r, store, names, cfg, os.Stdout)
	fmt.Printf("\n%s\n", summary)
	if err != nil {
		return fmt.Errorf("population interrupted: %w", err)
	}
	return nil
}

func init() {
	populateCmd.Flags().StringP("file", "f", "", "species list file, one name per line")
	populateCmd.Flags().Float64("rate", 0, "provider lookups per second (0 = use config)")

	rootCmd.AddCommand(populateCmd)
}
