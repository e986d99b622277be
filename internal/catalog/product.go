// Package catalog holds the marketplace product record and the caller-side catalog
// helpers that sit around the ranking engine: loading, lookup, category
// pre-filtering and the title substring fallback.
package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Product is one marketplace listing.
//
// Text fields decode leniently: null or non-string values become "", and a
// populated reference object ({"name": ...} for categories, {"vendorName": ...}
// for vendors) is flattened to its name. Unknown fields are kept in Extra and
// written back out on marshal.
type Product struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Slug         string  `json:"slug,omitempty"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Discount     float64 `json:"discount,omitempty"`
	Size         string  `json:"size,omitempty"`
	Image        string  `json:"image,omitempty"`
	Availability bool    `json:"availability"`
	IsNew        bool    `json:"isNew"`
	Rating       float64 `json:"rating"`
	CountInStock int     `json:"countInStock"`
	Category     string  `json:"category"`
	Vendor       string  `json:"vendor,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// GetID implements engine.Record.
func (p Product) GetID() string { return p.ID }

// GetTitle implements engine.Record.
func (p Product) GetTitle() string { return p.Title }

// GetCategory implements engine.Record.
func (p Product) GetCategory() string { return p.Category }

// GetDescription implements engine.Record.
func (p Product) GetDescription() string { return p.Description }

// known lists every JSON key Product decodes itself.
var known = map[string]struct{}{
	"_id": {}, "id": {}, "title": {}, "slug": {}, "description": {}, "price": {},
	"discount": {}, "size": {}, "image": {}, "availability": {}, "isNew": {},
	"rating": {}, "countInStock": {}, "category": {}, "vendor": {},
}

// UnmarshalJSON decodes a product, tolerating missing or mistyped fields.
func (p *Product) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*p = Product{
		ID:           textField(fields["_id"], "$oid"),
		Title:        textField(fields["title"]),
		Slug:         textField(fields["slug"]),
		Description:  textField(fields["description"]),
		Price:        numberField(fields["price"]),
		Discount:     numberField(fields["discount"]),
		Size:         textField(fields["size"]),
		Image:        textField(fields["image"]),
		Availability: boolField(fields["availability"], true),
		IsNew:        boolField(fields["isNew"], true),
		Rating:       numberField(fields["rating"]),
		CountInStock: int(numberField(fields["countInStock"])),
		Category:     textField(fields["category"], "name"),
		Vendor:       textField(fields["vendor"], "vendorName", "name"),
	}
	if p.ID == "" {
		p.ID = textField(fields["id"], "$oid")
	}

	for key, raw := range fields {
		if _, ok := known[key]; ok {
			continue
		}
		if p.Extra == nil {
			p.Extra = make(map[string]json.RawMessage)
		}
		p.Extra[key] = raw
	}
	return nil
}

// MarshalJSON writes the known fields merged over Extra.
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	base, err := json.Marshal(plain(p))
	if err != nil {
		return nil, err
	}
	if len(p.Extra) == 0 {
		return base, nil
	}

	merged := make(map[string]json.RawMessage, len(p.Extra)+16)
	for key, raw := range p.Extra {
		merged[key] = raw
	}
	var own map[string]json.RawMessage
	if err := json.Unmarshal(base, &own); err != nil {
		return nil, err
	}
	for key, raw := range own {
		merged[key] = raw
	}
	return json.Marshal(merged)
}

// textField reads a JSON string. For objects, the first of nameKeys holding a
// string is used. Anything else yields "".
func textField(raw json.RawMessage, nameKeys ...string) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return ""
		}
		for _, key := range nameKeys {
			if s := textField(obj[key]); s != "" {
				return s
			}
		}
	}
	return ""
}

// numberField reads a JSON number or numeric string, defaulting to 0.
func numberField(raw json.RawMessage) float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	if s := textField(raw); s != "" {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return n
		}
	}
	return 0
}

// boolField reads a JSON boolean, using def when absent or mistyped.
func boolField(raw json.RawMessage, def bool) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return def
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return def
	}
	return b
}
