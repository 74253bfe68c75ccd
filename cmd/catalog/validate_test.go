package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"Boutique/internal/catalog"
)

func TestReport(t *testing.T) {
	c, err := catalog.Parse([]byte(`{
		"products": [
			{"id": "p1", "category": "tops"},
			{"id": "p1", "category": "bottoms"}
		],
		"categories": [{"id": "tops", "name": "Tops"}]
	}`))
	require.NoError(t, err)

	var out bytes.Buffer
	problems := report(&out, "products.json", c)

	require.Equal(t, 2, problems)
	require.Equal(t, "products.json: 2 products, 1 categories\n"+
		"  duplicate id: product:p1\n"+
		"  undefined category: \"bottoms\"\n", out.String())
}

func TestValidateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"products": [{"id": "p1", "category": "x"}], "categories": []}`), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"validate", "--data", path})
	require.NoError(t, rootCmd.Execute())
	require.Contains(t, out.String(), "1 products, 0 categories")

	rootCmd.SetArgs([]string{"validate", "--data", path, "--strict"})
	require.Error(t, rootCmd.Execute())

	rootCmd.SetArgs([]string{"validate", "--data", filepath.Join(t.TempDir(), "missing.json")})
	require.ErrorIs(t, rootCmd.Execute(), catalog.ErrDataUnavailable)
}
