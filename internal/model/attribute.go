package model

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// AttrType is the declared type of an attribute.
type AttrType string

const (
	AttrString    AttrType = "string"
	AttrNumber    AttrType = "number"
	AttrBoolean   AttrType = "boolean"
	AttrEnum      AttrType = "enum"
	AttrColor     AttrType = "color"
	AttrComposite AttrType = "composite"
)

// Valid reports whether t is one of the known attribute types.
func (t AttrType) Valid() bool {
	switch t {
	case AttrString, AttrNumber, AttrBoolean, AttrEnum, AttrColor, AttrComposite:
		return true
	}
	return false
}

// Attribute is one named, typed value of a node. Descriptors return
// attributes in declaration order and that order is kept on the wire.
// Value should be plain data (scalars, map[string]any, []any); anything
// else is normalized to its JSON form when the attribute is cloned.
type Attribute struct {
	Name    string   `yaml:"name"              json:"name"`
	Type    AttrType `yaml:"type"              json:"type"`
	Value   any      `yaml:"value"             json:"value"`
	Mutable bool     `yaml:"mutable"           json:"mutable"`
	Options []string `yaml:"options,omitempty" json:"options,omitempty"` // enum members
}

// Clone returns a copy of a that shares no maps or slices with it.
func (a Attribute) Clone() Attribute {
	c := a
	c.Value = cloneValue(a.Value)
	if a.Options != nil {
		c.Options = append([]string(nil), a.Options...)
	}
	return c
}

// CloneAttributes deep-copies an attribute list.
func CloneAttributes(attrs []Attribute) []Attribute {
	if attrs == nil {
		return nil
	}
	out := make([]Attribute, len(attrs))
	for i, a := range attrs {
		out[i] = a.Clone()
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = cloneValue(val)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, val := range t {
			s[i] = cloneValue(val)
		}
		return s
	case []string:
		return append([]string(nil), t...)
	case nil, string, bool, json.Number:
		return v
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return v
	}
	return plainValue(v)
}

// plainValue converts a host value with reference semantics (pointer,
// struct, typed slice or map) to the plain form it has on the wire.
func plainValue(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return out
}

// ParseValue reads an attribute value typed by a user. JSON is decoded with
// numbers kept as json.Number, so 16, true or {"top":4} arrive typed; any
// other text is taken as a literal string.
func ParseValue(s string) any {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return s
	}
	return v
}
