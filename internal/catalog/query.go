package catalog

import (
	"slices"
	"strings"
	"unicode/utf8"
)

const (
	MinQueryLen        = 2
	DefaultSearchLimit = 10
)

// ProductsIn returns the products whose category equals category, in catalog
// order. An empty category means no filter. The result is never nil.
func (c *Catalog) ProductsIn(category string) []Product {
	if category == "" {
		return slices.Clone(nonNil(c.Products))
	}
	return c.inCategory(category)
}

func (c *Catalog) inCategory(category string) []Product {
	out := make([]Product, 0)
	for _, p := range c.Products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Product returns the first product with the given id.
func (c *Catalog) Product(id string) (Product, bool) {
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func (c *Catalog) AllCategories() []Category {
	return slices.Clone(nonNil(c.Categories))
}

// Category returns the first category with the given id.
func (c *Catalog) Category(id string) (Category, bool) {
	for _, cg := range c.Categories {
		if cg.ID == id {
			return cg, true
		}
	}
	return Category{}, false
}

// Search matches q case-insensitively as a substring of each product's name,
// description, long description and tags. Results keep catalog order and are
// cut to limit when limit > 0. Callers validate q with validQuery first.
func (c *Catalog) Search(q string, limit int) []Product {
	needle := strings.ToLower(strings.TrimSpace(q))

	out := make([]Product, 0)
	for _, p := range c.Products {
		if limit > 0 && len(out) == limit {
			break
		}
		if p.matches(needle) {
			out = append(out, p)
		}
	}
	return out
}

// DanglingCategories lists category references that no category defines,
// in first-seen order.
func (c *Catalog) DanglingCategories() []string {
	known := make(map[string]struct{}, len(c.Categories))
	for _, cg := range c.Categories {
		known[cg.ID] = struct{}{}
	}

	seen := make(map[string]struct{})
	var out []string
	for _, p := range c.Products {
		if _, ok := known[p.Category]; ok {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// DuplicateIDs reports identifiers that appear more than once, prefixed with
// "product:" or "category:". Lookups only ever see the first occurrence.
func (c *Catalog) DuplicateIDs() []string {
	var out []string

	seen := make(map[string]int, len(c.Products))
	for _, p := range c.Products {
		seen[p.ID]++
		if seen[p.ID] == 2 {
			out = append(out, "product:"+p.ID)
		}
	}

	seen = make(map[string]int, len(c.Categories))
	for _, cg := range c.Categories {
		seen[cg.ID]++
		if seen[cg.ID] == 2 {
			out = append(out, "category:"+cg.ID)
		}
	}
	return out
}

func (p Product) matches(needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(p.LongDescription), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func validQuery(q string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(q)) >= MinQueryLen
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
