// Package checklist holds the static inspection checklist and the regulatory code
// tables. Both the form layer and the report renderer walk the same Schema, so the
// order of sections and items is part of the contract.
package checklist

import "fmt"

// Key identifies one checklist line by its section title and its position within the
// section.
type Key struct {
	Section string `json:"section"`
	Item    int    `json:"item"`
}

func (k Key) String() string {
	return fmt.Sprintf("%s#%d", k.Section, k.Item)
}

// Section is a titled, ordered group of item labels.
type Section struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// Schema is the ordered list of sections. It is built once and never mutated.
type Schema struct {
	Sections []Section `json:"sections"`
}

// NewSchema copies the given sections so later changes to the caller's slices
// cannot reorder or drop items. Keys are addressed by section title, so it panics
// on a repeated title; schemas are built once at startup.
func NewSchema(sections ...Section) Schema {
	out := make([]Section, len(sections))
	seen := make(map[string]bool, len(sections))
	for i, s := range sections {
		if seen[s.Title] {
			panic(fmt.Sprintf("checklist: duplicate section title %q", s.Title))
		}
		seen[s.Title] = true
		out[i] = Section{Title: s.Title, Items: append([]string(nil), s.Items...)}
	}
	return Schema{Sections: out}
}

// Lookup returns the section with the given title.
func (s Schema) Lookup(title string) (Section, bool) {
	for _, sec := range s.Sections {
		if sec.Title == title {
			return sec, true
		}
	}
	return Section{}, false
}

// Has reports whether k addresses an existing item.
func (s Schema) Has(k Key) bool {
	sec, ok := s.Lookup(k.Section)
	if !ok {
		return false
	}
	return k.Item >= 0 && k.Item < len(sec.Items)
}

// Keys returns every item key in schema order.
func (s Schema) Keys() []Key {
	keys := make([]Key, 0, s.ItemCount())
	for _, sec := range s.Sections {
		for i := range sec.Items {
			keys = append(keys, Key{Section: sec.Title, Item: i})
		}
	}
	return keys
}

// ItemCount is the total number of items across all sections.
func (s Schema) ItemCount() int {
	n := 0
	for _, sec := range s.Sections {
		n += len(sec.Items)
	}
	return n
}
