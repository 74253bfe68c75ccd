//go:build integration
// +build integration

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:8001")

type productList struct {
	Products []map[string]any `json:"products"`
	Total    int              `json:"total"`
}

func TestSystem_E2E_Catalog(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	var all productList
	getJSON(t, baseURL+"/api/products", &all, http.StatusOK)
	if all.Total == 0 || all.Total != len(all.Products) {
		t.Fatalf("products total=%d len=%d", all.Total, len(all.Products))
	}

	first := all.Products[0]
	pid, _ := first["id"].(string)
	cid, _ := first["category"].(string)
	name, _ := first["name"].(string)
	if pid == "" {
		t.Fatalf("product id missing: %#v", first)
	}

	var one struct {
		Product map[string]any `json:"product"`
	}
	getJSON(t, baseURL+"/api/products/"+url.PathEscape(pid), &one, http.StatusOK)
	if one.Product["id"] != pid {
		t.Fatalf("product id=%v want=%s", one.Product["id"], pid)
	}

	var categories struct {
		Categories []map[string]any `json:"categories"`
		Total      int              `json:"total"`
	}
	getJSON(t, baseURL+"/api/categories", &categories, http.StatusOK)
	if categories.Total != len(categories.Categories) {
		t.Fatalf("categories total=%d len=%d", categories.Total, len(categories.Categories))
	}

	if cid != "" {
		var filtered productList
		getJSON(t, baseURL+"/api/products?category="+url.QueryEscape(cid), &filtered, http.StatusOK)
		for _, p := range filtered.Products {
			if p["category"] != cid {
				t.Fatalf("filtered product %v has category %v want %s", p["id"], p["category"], cid)
			}
		}
	}

	getJSON(t, baseURL+"/api/products/category/definitely-not-a-category", nil, http.StatusNotFound)
	getJSON(t, baseURL+"/api/products/definitely-not-a-product", nil, http.StatusNotFound)
	getJSON(t, baseURL+"/api/search?q=x", nil, http.StatusBadRequest)

	if r := []rune(strings.TrimSpace(name)); len(r) >= 2 {
		var found productList
		q := strings.ToUpper(string(r[:2]))
		getJSON(t, baseURL+"/api/search?limit=100&q="+url.QueryEscape(q), &found, http.StatusOK)
		if found.Total == 0 {
			t.Fatalf("search %q found nothing", q)
		}
	}

	if os.Getenv("E2E_RESTART_CATALOG") == "1" {
		restartCatalogContainer(t, ctx)
		waitReady(t, ctx, baseURL+"/readyz")

		var again productList
		getJSON(t, baseURL+"/api/products", &again, http.StatusOK)
		if again.Total != all.Total {
			t.Fatalf("after restart total=%d want=%d", again.Total, all.Total)
		}
	}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := client.Do(req)
		if err == nil && resp != nil && resp.StatusCode == 200 {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("service not ready: %s", url)
}

func getJSON(t *testing.T, url string, out any, want int) {
	t.Helper()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		t.Fatalf("GET %s: status=%d want=%d", url, resp.StatusCode, want)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
