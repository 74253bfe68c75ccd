package catalog

import (
	"encoding/json"
	"fmt"
)

// Product is a catalog item. The typed fields are read leniently from the
// stored object: a value of the wrong JSON type reads as absent. A decoded
// product is written back exactly as stored, from Raw.
type Product struct {
	ID              string
	Category        string
	Name            string
	Description     string
	LongDescription string
	Tags            []string

	// Raw holds every key of the stored object. Nil for products built in code.
	Raw map[string]json.RawMessage
}

// Category groups products. Like Product, it keeps its stored object in Raw.
type Category struct {
	ID   string
	Name string

	Raw map[string]json.RawMessage
}

// Catalog is the whole document: every product and category in file order.
type Catalog struct {
	Products   []Product  `json:"products"`
	Categories []Category `json:"categories"`
}

func (p *Product) UnmarshalJSON(b []byte) error {
	raw, err := decodeObject(b)
	if err != nil {
		return fmt.Errorf("product: %w", err)
	}

	*p = Product{
		ID:              stringField(raw, "id"),
		Category:        stringField(raw, "category"),
		Name:            stringField(raw, "name"),
		Description:     stringField(raw, "description"),
		LongDescription: stringField(raw, "longDescription"),
		Tags:            stringsField(raw, "tags"),
		Raw:             raw,
	}
	return nil
}

func (p Product) MarshalJSON() ([]byte, error) {
	if p.Raw != nil {
		return json.Marshal(p.Raw)
	}

	out := make(map[string]any, 6)
	out["id"] = p.ID
	putString(out, "category", p.Category)
	putString(out, "name", p.Name)
	putString(out, "description", p.Description)
	putString(out, "longDescription", p.LongDescription)
	if p.Tags != nil {
		out["tags"] = p.Tags
	}
	return json.Marshal(out)
}

func (c *Category) UnmarshalJSON(b []byte) error {
	raw, err := decodeObject(b)
	if err != nil {
		return fmt.Errorf("category: %w", err)
	}

	*c = Category{
		ID:   stringField(raw, "id"),
		Name: stringField(raw, "name"),
		Raw:  raw,
	}
	return nil
}

func (c Category) MarshalJSON() ([]byte, error) {
	if c.Raw != nil {
		return json.Marshal(c.Raw)
	}

	out := make(map[string]any, 2)
	out["id"] = c.ID
	putString(out, "name", c.Name)
	return json.Marshal(out)
}

// decodeObject accepts a JSON object or null. The values are copied, so the
// result does not alias b.
func decodeObject(b []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// stringField returns raw[key] when it is a JSON string, and "" otherwise.
func stringField(raw map[string]json.RawMessage, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}

// stringsField returns the string elements of the array at raw[key].
// Other elements are skipped; a value that is not an array reads as nil.
func stringsField(raw map[string]json.RawMessage, key string) []string {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(v, &items); err != nil || items == nil {
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
		}
	}
	return out
}

func putString(out map[string]any, key, v string) {
	if v != "" {
		out[key] = v
	}
}
