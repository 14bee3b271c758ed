package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Value is one field of a character record: either a scalar or an ordered
// list of strings. Numbers and booleans are kept in their canonical string
// form so that "5" and 5 compare equal.
type Value struct {
	scalar string
	list   []string
	isList bool
}

// Scalar returns a scalar Value.
func Scalar(s string) Value { return Value{scalar: s} }

// List returns a list Value.
func List(items ...string) Value {
	return Value{list: append([]string{}, items...), isList: true}
}

// IsList reports whether the value was provided as an array.
func (v Value) IsList() bool { return v.isList }

// String returns the scalar, or the list items joined by ", ".
func (v Value) String() string {
	if v.isList {
		return strings.Join(v.list, ", ")
	}
	return v.scalar
}

// Items returns the list items. A scalar is coerced to a singleton list.
func (v Value) Items() []string {
	if v.isList {
		return append([]string{}, v.list...)
	}
	return []string{v.scalar}
}

// Empty reports whether the value carries no data.
func (v Value) Empty() bool {
	if v.isList {
		return len(v.list) == 0
	}
	return v.scalar == ""
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.isList {
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	}
	return json.Marshal(v.scalar)
}

func (v *Value) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if arr, ok := raw.([]any); ok {
		items := make([]string, 0, len(arr))
		for i, el := range arr {
			s, err := scalarString(el)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			items = append(items, s)
		}
		*v = Value{list: items, isList: true}
		return nil
	}
	s, err := scalarString(raw)
	if err != nil {
		return err
	}
	*v = Value{scalar: s}
	return nil
}

// scalarString renders a decoded JSON scalar in canonical string form.
func scalarString(x any) (string, error) {
	switch t := x.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case json.Number:
		return canonicalNumber(t.String()), nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", x)
	}
}

// canonicalNumber formats numeric text so that equal numbers share one
// spelling ("5.0" -> "5"). Non-numeric text is returned unchanged.
func canonicalNumber(s string) string {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
