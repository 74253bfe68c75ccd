package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const service = "catalog"

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Read-only product catalog API",
	Long: `catalog loads a JSON document of products and categories once and serves
list, filter, search and lookup endpoints over HTTP.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
