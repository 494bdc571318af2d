package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of fossil-references",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fossil-references %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
