// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/o957/fossil-references/internal/populate"
	"github.com/o957/fossil-references/internal/resolver"
	"github.com/o957/fossil-references/pkg/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [species name]",
	Short: "Resolve one species name to its original description reference",
	Long: `Resolve queries the enabled nomenclature databases for the species name,
selects the best citation, and prints the resolved reference. Results are
cached; repeated resolutions of the same name are served locally.

A species with no usable reference prints "not found" and exits 0: an
absent reference is an answer, not a failure.`,
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")

	var names []string
	switch {
	case file != "":
		loaded, err := populate.LoadSpeciesFile(file)
		if err != nil {
			return err
		}
		names = loaded
	case len(args) > 0:
		names = []string{strings.Join(args, " ")}
	default:
		return fmt.Errorf("species name or --file required")
	}

	r, store, err := buildResolver(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	jsonOutput, _ := cmd.Flags().GetBool("json")
	for _, name := range names {
		ref, outcome, err := r.Resolve(context.Background(), name)
		if err != nil {
			return err
		}
		if err := formatResolveOutput(ref, outcome, jsonOutput); err != nil {
			return err
		}
	}
	return nil
}

func formatResolveOutput(ref types.ResolvedReference, outcome resolver.Outcome, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ref)
	}

	if !ref.Found() {
		fmt.Printf("%s: not found\n", ref.SearchTerm)
		return nil
	}

	fmt.Printf("%s\n", ref.SearchTerm)
	fmt.Printf("  Authority: %s\n", ref.TaxonomicAuthority)
	if ref.Year != 0 {
		fmt.Printf("  Year:      %d\n", ref.Year)
	}
	if ref.Author != "" {
		fmt.Printf("  Author:    %s\n", ref.Author)
	}
	fmt.Printf("  Citation:  %s\n", ref.FullCitation)
	if ref.DOI != "" {
		fmt.Printf("  DOI:       %s\n", ref.DOI)
	}
	fmt.Printf("  Link:      %s\n", ref.PaperLink)
	fmt.Printf("  Source:    %s (%s)\n", ref.Source, outcome)
	if ref.YearMismatch {
		fmt.Println("  Note:      citation year does not match the authority year")
	}
	return nil
}

func init() {
	resolveCmd.Flags().Bool("json", false, "output the resolved reference as JSON")
	resolveCmd.Flags().StringP("file", "f", "", "resolve every species in a list file instead of one name")

	rootCmd.AddCommand(resolveCmd)
}
