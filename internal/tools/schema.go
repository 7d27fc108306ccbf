package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParamType is the declared type of a tool parameter.
type ParamType string

const (
	TypeString       ParamType = "string"
	TypeNumber       ParamType = "number"
	TypeBoolean      ParamType = "boolean"
	TypeStringOrList ParamType = "string_or_list" // a single string or a list of strings
	TypeStringList   ParamType = "string_list"
	TypeEnum         ParamType = "enum"
	TypeBoolOrEnum   ParamType = "boolean_or_enum"
	TypeObject       ParamType = "object" // nested Fields
)

// ParamSpec declares one named tool parameter.
type ParamSpec struct {
	Name        string      `json:"name"`
	Type        ParamType   `json:"type"`
	Description string      `json:"description,omitempty"`
	Required    bool        `json:"required"`
	Default     interface{} `json:"default,omitempty"`
	Enum        []string    `json:"enum,omitempty"`
	Min         *float64    `json:"min,omitempty"`
	Max         *float64    `json:"max,omitempty"`
	Integer     bool        `json:"integer,omitempty"` // TypeNumber only: reject fractions
	Fields      []ParamSpec `json:"fields,omitempty"`

	// RequiredMessage and RangeMessage replace the generic validation
	// messages when set.
	RequiredMessage string `json:"-"`
	RangeMessage    string `json:"-"`
}

// Bound is a helper for ParamSpec.Min and ParamSpec.Max.
func Bound(v float64) *float64 {
	return &v
}

// Validate resolves raw call arguments against specs. Required parameters are
// checked first and the first missing one fails the call before any type
// check runs. Supplied values are then coerced to their declared type, and
// finally defaults fill the optional parameters that were not supplied.
// Arguments without a matching spec are dropped.
func Validate(specs []ParamSpec, raw map[string]interface{}) (Args, *Failure) {
	return validate(specs, raw, "")
}

func validate(specs []ParamSpec, raw map[string]interface{}, prefix string) (Args, *Failure) {
	for _, p := range specs {
		if p.Required && isEmpty(raw[p.Name]) {
			if p.RequiredMessage != "" {
				return nil, Invalid(p.RequiredMessage)
			}
			return nil, Invalidf("%s%s is required", prefix, p.Name)
		}
	}

	args := make(Args, len(specs))
	for _, p := range specs {
		v, ok := raw[p.Name]
		if !ok || isEmpty(v) {
			continue
		}
		cv, f := coerce(p, v, prefix)
		if f != nil {
			return nil, f
		}
		args[p.Name] = cv
	}

	for _, p := range specs {
		if _, ok := args[p.Name]; ok {
			continue
		}
		if p.Type == TypeObject {
			nested, f := validate(p.Fields, nil, prefix+p.Name+".")
			if f != nil {
				return nil, f
			}
			args[p.Name] = nested
			continue
		}
		if p.Default != nil {
			args[p.Name] = cloneDefault(p.Default)
		}
	}

	return args, nil
}

func isEmpty(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []interface{}:
		return len(t) == 0
	case []string:
		return len(t) == 0
	}
	return false
}

func coerce(p ParamSpec, v interface{}, prefix string) (interface{}, *Failure) {
	name := prefix + p.Name

	switch p.Type {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, Invalidf("%s must be a string", name)
		}
		return s, nil

	case TypeNumber:
		n, ok := toFloat(v)
		if !ok {
			return nil, Invalidf("%s must be a number", name)
		}
		if p.Integer && n != math.Trunc(n) {
			return nil, Invalidf("%s must be a whole number", name)
		}
		if (p.Min != nil && n < *p.Min) || (p.Max != nil && n > *p.Max) {
			if p.RangeMessage != "" {
				return nil, Invalid(p.RangeMessage)
			}
			return nil, Invalidf("%s must be between %s and %s", name, deref(p.Min), deref(p.Max))
		}
		return n, nil

	case TypeBoolean:
		b, ok := toBool(v)
		if !ok {
			return nil, Invalidf("%s must be a boolean", name)
		}
		return b, nil

	case TypeStringOrList:
		if s, ok := v.(string); ok {
			return s, nil
		}
		list, ok := toStrings(v)
		if !ok {
			return nil, Invalidf("%s must be a string or a list of strings", name)
		}
		return list, nil

	case TypeStringList:
		if s, ok := v.(string); ok {
			return splitList(s), nil
		}
		list, ok := toStrings(v)
		if !ok {
			return nil, Invalidf("%s must be a list of strings", name)
		}
		return list, nil

	case TypeEnum:
		s, ok := v.(string)
		if !ok || !contains(p.Enum, s) {
			return nil, Invalidf("%s must be one of: %s", name, strings.Join(p.Enum, ", "))
		}
		return s, nil

	case TypeBoolOrEnum:
		if b, ok := v.(bool); ok {
			return b, nil
		}
		s, ok := v.(string)
		if ok && contains(p.Enum, s) {
			return s, nil
		}
		if b, ok := toBool(v); ok {
			return b, nil
		}
		return nil, Invalidf("%s must be a boolean or one of: %s", name, strings.Join(p.Enum, ", "))

	case TypeObject:
		m, ok := toMap(v)
		if !ok {
			return nil, Invalidf("%s must be an object", name)
		}
		return validate(p.Fields, m, name+".")
	}

	return nil, Unexpected("parameter %s has unknown type %q", name, p.Type)
}

// toFloat accepts finite numbers and their string forms.
func toFloat(v interface{}) (float64, bool) {
	n, ok := parseFloat(v)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func parseFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

func toBool(v interface{}) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return b, err == nil
	}
	return false, false
}

func toStrings(v interface{}) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...), true
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// toMap accepts a decoded JSON object or its string form, which is how
// objects arrive through query strings.
func toMap(v interface{}) (map[string]interface{}, bool) {
	switch t := v.(type) {
	case map[string]interface{}:
		return t, true
	case Args:
		return t, true
	case string:
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(t), &m); err != nil {
			return nil, false
		}
		return m, true
	}
	return nil, false
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func cloneDefault(v interface{}) interface{} {
	if list, ok := v.([]string); ok {
		return append([]string{}, list...)
	}
	return v
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func deref(f *float64) string {
	if f == nil {
		return "any"
	}
	return fmt.Sprintf("%g", *f)
}
