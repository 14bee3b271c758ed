// internal/dataset/dataset.go
//
// Character records and the read-only dataset they live in.
// Responsibilities:
//   - Decode a JSON array of character objects into Character records.
//   - Validate records against the attribute schema (id, name, every key).
//   - Index records by id and support name search for the guess picker.
//
// A Dataset is built once and never mutated afterwards, so it is safe to
// share between any number of game sessions.

package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"

	"github.com/robalobadob/hsr-guess/internal/schema"
)

var (
	// ErrDataLoad means the dataset could not be fetched or was malformed.
	ErrDataLoad = errors.New("dataset: load failed")
	// ErrEmptyDataset means the dataset decoded fine but holds no records.
	ErrEmptyDataset = errors.New("dataset: no characters")
)

// Character is one immutable record of the dataset.
type Character struct {
	ID     string
	Name   string
	Fields map[string]Value
}

// Value returns the field stored under key (zero Value if absent).
func (c *Character) Value(key string) Value {
	return c.Fields[key]
}

// Image returns the image reference for an image attribute.
func (c *Character) Image(a schema.Attribute) string {
	if a.ImageKey == "" {
		return ""
	}
	return c.Fields[a.ImageKey].String()
}

// Info returns the detail list for a list attribute: the infoKey field when
// the schema names one and the record has it, else the comparable items.
func (c *Character) Info(a schema.Attribute) []string {
	if a.InfoKey != "" {
		if v, ok := c.Fields[a.InfoKey]; ok && !v.Empty() {
			return v.Items()
		}
	}
	v := c.Fields[a.Key]
	if v.IsList() {
		return v.Items()
	}
	if v.Empty() {
		return nil
	}
	return []string{v.String()}
}

// MarshalJSON flattens the record back to its source shape.
func (c *Character) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(c.Fields)+2)
	for k, v := range c.Fields {
		m[k] = v
	}
	m["id"] = c.ID
	m["name"] = c.Name
	return json.Marshal(m)
}

// Dataset is the read-only collection of characters.
type Dataset struct {
	chars  []*Character
	byID   map[string]*Character
	folded []string // case-folded names, parallel to chars
}

// New validates chars against sch and indexes them.
func New(chars []*Character, sch *schema.Schema) (*Dataset, error) {
	d := &Dataset{
		chars:  make([]*Character, 0, len(chars)),
		byID:   make(map[string]*Character, len(chars)),
		folded: make([]string, 0, len(chars)),
	}
	fold := cases.Fold()
	for i, c := range chars {
		if c == nil {
			return nil, fmt.Errorf("%w: record %d is null", ErrDataLoad, i)
		}
		if c.ID == "" {
			return nil, fmt.Errorf("%w: record %d has no id", ErrDataLoad, i)
		}
		if c.Name == "" {
			return nil, fmt.Errorf("%w: record %s has no name", ErrDataLoad, c.ID)
		}
		if _, dup := d.byID[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrDataLoad, c.ID)
		}
		if sch != nil {
			for _, key := range sch.Keys() {
				if _, ok := c.Fields[key]; !ok {
					return nil, fmt.Errorf("%w: record %s is missing %q", ErrDataLoad, c.ID, key)
				}
			}
		}
		d.chars = append(d.chars, c)
		d.byID[c.ID] = c
		d.folded = append(d.folded, fold.String(c.Name))
	}
	if len(d.chars) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrDataLoad, ErrEmptyDataset)
	}
	return d, nil
}

// Parse decodes a JSON array of character objects and validates it.
func Parse(r io.Reader, sch *schema.Schema) (*Dataset, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", ErrDataLoad, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty source", ErrDataLoad)
	}

	var rows []map[string]Value
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrDataLoad, err)
	}

	chars := make([]*Character, 0, len(rows))
	for i, row := range rows {
		if row == nil {
			return nil, fmt.Errorf("%w: record %d is null", ErrDataLoad, i)
		}
		id, name := row["id"], row["name"]
		if id.IsList() || name.IsList() {
			return nil, fmt.Errorf("%w: record %d: id and name must be scalars", ErrDataLoad, i)
		}
		c := &Character{
			ID:     id.String(),
			Name:   name.String(),
			Fields: make(map[string]Value, len(row)),
		}
		for k, v := range row {
			if k == "id" {
				continue
			}
			c.Fields[k] = v
		}
		chars = append(chars, c)
	}
	return New(chars, sch)
}

// Len is the number of characters.
func (d *Dataset) Len() int { return len(d.chars) }

// All returns the characters in source order.
func (d *Dataset) All() []*Character {
	return append([]*Character{}, d.chars...)
}

// At returns the i-th character in source order.
func (d *Dataset) At(i int) *Character { return d.chars[i] }

// ByID looks a character up by its identifier.
func (d *Dataset) ByID(id string) (*Character, bool) {
	c, ok := d.byID[id]
	return c, ok
}

// Search returns characters whose name contains query, ignoring case, in
// dataset order. An empty query matches nothing. limit <= 0 means no limit.
func (d *Dataset) Search(query string, limit int) []*Character {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	q := cases.Fold().String(query)
	var out []*Character
	for i, name := range d.folded {
		if strings.Contains(name, q) {
			out = append(out, d.chars[i])
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out
}
