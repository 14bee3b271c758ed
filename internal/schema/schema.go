// internal/schema/schema.go
//
// Attribute schema for the guessing game.
// Defines:
//   - Type: closed set of attribute kinds (image, text, list, year).
//   - Attribute: one comparable column of a character record.
//   - Schema: the canonical, ordered, immutable list of attributes.
//
// The canonical order is the declaration order. Any active subset of
// attributes is re-sorted into this order after a toggle.

package schema

import (
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Type governs how an attribute is compared and whether it can carry a hint.
type Type string

const (
	TypeImage Type = "image"
	TypeText  Type = "text"
	TypeList  Type = "list"
	TypeYear  Type = "year"
)

// Valid reports whether t is one of the known attribute types.
func (t Type) Valid() bool {
	switch t {
	case TypeImage, TypeText, TypeList, TypeYear:
		return true
	}
	return false
}

// Attribute describes one comparable field on a character record.
type Attribute struct {
	Key       string `yaml:"key" json:"key"`
	Label     string `yaml:"label" json:"label"`
	Type      Type   `yaml:"type" json:"type"`
	ImageKey  string `yaml:"imageKey,omitempty" json:"imageKey,omitempty"`
	InfoKey   string `yaml:"infoKey,omitempty" json:"infoKey,omitempty"`
	Mandatory bool   `yaml:"mandatory,omitempty" json:"mandatory"`
	// Ordinal marks a text attribute whose values are ordered integers
	// (e.g. rarity). Year attributes are always ordinal.
	Ordinal bool `yaml:"ordinal,omitempty" json:"ordinal"`
}

// IsOrdinal reports whether directional hints apply to this attribute.
func (a Attribute) IsOrdinal() bool {
	return a.Type == TypeYear || a.Ordinal
}

// Schema is the canonical attribute list. It is built once and never mutated.
type Schema struct {
	attrs []Attribute
	index map[string]int
}

// ErrInvalid is returned when a schema definition fails validation.
var ErrInvalid = errors.New("schema: invalid definition")

// New validates attrs and builds a Schema in the given order.
func New(attrs []Attribute) (*Schema, error) {
	if len(attrs) == 0 {
		return nil, fmt.Errorf("%w: no attributes", ErrInvalid)
	}
	s := &Schema{
		attrs: make([]Attribute, len(attrs)),
		index: make(map[string]int, len(attrs)),
	}
	mandatory := 0
	for i, a := range attrs {
		if a.Key == "" {
			return nil, fmt.Errorf("%w: attribute %d has no key", ErrInvalid, i)
		}
		if _, dup := s.index[a.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrInvalid, a.Key)
		}
		if !a.Type.Valid() {
			return nil, fmt.Errorf("%w: %q has unknown type %q", ErrInvalid, a.Key, a.Type)
		}
		if a.ImageKey != "" && a.Type != TypeImage {
			return nil, fmt.Errorf("%w: %q has imageKey but is not an image attribute", ErrInvalid, a.Key)
		}
		if a.Label == "" {
			a.Label = a.Key
		}
		if a.Mandatory {
			mandatory++
		}
		s.attrs[i] = a
		s.index[a.Key] = i
	}
	if mandatory == 0 {
		return nil, fmt.Errorf("%w: at least one attribute must be mandatory", ErrInvalid)
	}
	return s, nil
}

// Parse decodes a YAML document of the form `attributes: [...]`.
func Parse(doc []byte) (*Schema, error) {
	var file struct {
		Attributes []Attribute `yaml:"attributes"`
	}
	if err := yaml.Unmarshal(doc, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return New(file.Attributes)
}

// All returns a copy of the canonical attribute list.
func (s *Schema) All() []Attribute {
	out := make([]Attribute, len(s.attrs))
	copy(out, s.attrs)
	return out
}

// Len is the number of attributes in the schema.
func (s *Schema) Len() int { return len(s.attrs) }

// Keys returns attribute keys in canonical order.
func (s *Schema) Keys() []string {
	out := make([]string, len(s.attrs))
	for i, a := range s.attrs {
		out[i] = a.Key
	}
	return out
}

// Lookup returns the attribute for key, or false if the key is unknown.
func (s *Schema) Lookup(key string) (Attribute, bool) {
	i, ok := s.index[key]
	if !ok {
		return Attribute{}, false
	}
	return s.attrs[i], true
}

// Index returns the canonical position of key, or -1 if unknown.
func (s *Schema) Index(key string) int {
	if i, ok := s.index[key]; ok {
		return i
	}
	return -1
}

// Mandatory returns the attributes that can never be deactivated.
func (s *Schema) Mandatory() []Attribute {
	var out []Attribute
	for _, a := range s.attrs {
		if a.Mandatory {
			out = append(out, a)
		}
	}
	return out
}

// Sort orders attrs in place by canonical index. Unknown keys sort last.
func (s *Schema) Sort(attrs []Attribute) {
	rank := func(k string) int {
		if i, ok := s.index[k]; ok {
			return i
		}
		return len(s.attrs)
	}
	sort.SliceStable(attrs, func(i, j int) bool {
		return rank(attrs[i].Key) < rank(attrs[j].Key)
	})
}
