package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Seller represents the shop owner buyers contact
type Seller struct {
	PhoneE164 string `json:"phoneE164"`
	Location  string `json:"location"`
	LeadTime  string `json:"leadTime"`
}

// CatalogItem represents a product in the catalog
type CatalogItem struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category,omitempty"`
	Description  string   `json:"description"`
	Material     string   `json:"material"`
	Size         string   `json:"size"`
	Price        *float64 `json:"price,omitempty"`
	LeadTimeDays int      `json:"leadTimeDays"`
	Tags         []string `json:"tags,omitempty"`
	Featured     bool     `json:"featured"`
	Images       []string `json:"images,omitempty"`
	Options      Options  `json:"options,omitempty"`
}

// HasPrice reports whether the item carries a real price rather than a quote
func (i CatalogItem) HasPrice() bool {
	return i.Price != nil && *i.Price > 0
}

// CommunityPick represents an external model the seller recommends printing
type CommunityPick struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Site  string `json:"site"`
	Notes string `json:"notes,omitempty"`
}

// Catalog is the whole document loaded at startup
type Catalog struct {
	Seller         Seller          `json:"seller"`
	Items          []CatalogItem   `json:"items"`
	CommunityPicks []CommunityPick `json:"communityPicks,omitempty"`
}

// Option is one configurable attribute of an item and its allowed values
type Option struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Options keeps configurable options in document order.
// On the wire it is a JSON object of name -> values.
type Options []Option

// Names returns option names in declared order
func (o Options) Names() []string {
	names := make([]string, len(o))
	for i, opt := range o {
		names[i] = opt.Name
	}
	return names
}

// Lookup finds an option by name
func (o Options) Lookup(name string) (Option, bool) {
	for _, opt := range o {
		if opt.Name == name {
			return opt, true
		}
	}
	return Option{}, false
}

// Allows reports whether value is one of the declared choices for name
func (o Options) Allows(name, value string) bool {
	opt, ok := o.Lookup(name)
	if !ok {
		return false
	}
	for _, v := range opt.Values {
		if v == value {
			return true
		}
	}
	return false
}

// MarshalJSON writes options back as an ordered JSON object
func (o Options) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, opt := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(opt.Name)
		if err != nil {
			return nil, err
		}
		values := opt.Values
		if values == nil {
			values = []string{}
		}
		val, err := json.Marshal(values)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object while preserving key order.
// A repeated key keeps its first position and takes the last values.
func (o *Options) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("options: expected object, got %v", tok)
	}

	var out Options
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("options: unexpected key %v", tok)
		}

		var values []string
		if err := dec.Decode(&values); err != nil {
			return fmt.Errorf("options: values for %q: %w", name, err)
		}
		if values == nil {
			values = []string{}
		}

		if pos, seen := index[name]; seen {
			out[pos].Values = values
			continue
		}
		index[name] = len(out)
		out = append(out, Option{Name: name, Values: values})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*o = out
	return nil
}

// CardSession is the server-side selection state of one rendered card
type CardSession struct {
	ID         string            `json:"sessionId"`
	ItemID     string            `json:"itemId"`
	Selections map[string]string `json:"selections"`
}
