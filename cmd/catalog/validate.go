package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"Boutique/internal/catalog"
)

var (
	validateData   string
	validateStrict bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load the catalog file and report what it contains",
	Long: `validate parses the catalog document the way the server does and prints
product and category counts, duplicate identifiers and product category
references that no category defines.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := validateData
		if path == "" {
			path = os.Getenv("DATA_FILE")
		}
		if path == "" {
			path = "data/products.json"
		}

		c, err := catalog.ReadFile(path)
		if err != nil {
			return err
		}

		problems := report(cmd.OutOrStdout(), path, c)
		if validateStrict && problems > 0 {
			return fmt.Errorf("%d problem(s) found", problems)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateData, "data", "d", "", "catalog JSON file (default $DATA_FILE or data/products.json)")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "exit non-zero when problems are found")
	rootCmd.AddCommand(validateCmd)
}

func report(w io.Writer, path string, c *catalog.Catalog) int {
	fmt.Fprintf(w, "%s: %d products, %d categories\n", path, len(c.Products), len(c.Categories))

	problems := 0
	for _, id := range c.DuplicateIDs() {
		fmt.Fprintf(w, "  duplicate id: %s\n", id)
		problems++
	}
	for _, ref := range c.DanglingCategories() {
		fmt.Fprintf(w, "  undefined category: %q\n", ref)
		problems++
	}
	return problems
}
