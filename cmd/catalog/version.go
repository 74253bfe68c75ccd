package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"Boutique/internal/catalog"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the catalog API version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "catalog version %s\n", catalog.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
