package tools

import "strings"

// Args are validated call arguments keyed by parameter name. Nested objects
// are themselves Args.
type Args map[string]interface{}

// Value returns the argument at a dotted path such as "options.maxResults".
func (a Args) Value(path string) interface{} {
	head, rest, nested := strings.Cut(path, ".")
	v, ok := a[head]
	if !ok {
		return nil
	}
	if !nested {
		return v
	}
	child, ok := v.(Args)
	if !ok {
		return nil
	}
	return child.Value(rest)
}

// Has reports whether an argument resolved, either supplied or defaulted.
func (a Args) Has(path string) bool {
	return a.Value(path) != nil
}

func (a Args) String(path string) string {
	s, _ := a.Value(path).(string)
	return s
}

func (a Args) Bool(path string) bool {
	b, _ := a.Value(path).(bool)
	return b
}

func (a Args) Number(path string) float64 {
	n, _ := a.Value(path).(float64)
	return n
}

func (a Args) Int(path string) int {
	return int(a.Number(path))
}

// Strings returns a list argument. A single string is returned as a
// one-element list.
func (a Args) Strings(path string) []string {
	switch t := a.Value(path).(type) {
	case []string:
		return t
	case string:
		return []string{t}
	}
	return nil
}
