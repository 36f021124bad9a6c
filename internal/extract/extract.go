// Package extract provides null-safe traversal of the nested JSON shapes
// the Dodge feed returns: objects of {id,value} wrappers, plain scalars,
// and arrays of primary-flagged entries. Every function in this package is
// total — no input shape returns an error or panics; missing keys, nulls,
// empty arrays, and wrong types all degrade to the empty default.
package extract

import "strconv"

// Value walks data through path and returns the scalar found there as a
// string. A terminal object carrying a "value" key is unwrapped, so both
// `"city": "Memphis"` and `"city": {"id": 7, "value": "Memphis"}` resolve
// to "Memphis". Anything unresolvable yields "".
func Value(data any, path ...string) string {
	current := data
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return ""
		}
		current = m[key]
	}
	return Scalar(current)
}

// Slice walks data through path and returns the array found there, or nil.
func Slice(data any, path ...string) []any {
	current := data
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[key]
	}
	s, _ := current.([]any)
	return s
}

// Object walks data through path and returns the object found there, or nil.
func Object(data any, path ...string) map[string]any {
	current := data
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[key]
	}
	m, _ := current.(map[string]any)
	return m
}

// Primary returns the "value" of the entry flagged primary ("Y") in an
// array of candidate entries. When no entry is flagged it falls back to
// the first entry; an empty or non-array input yields "".
func Primary(entries []any) string {
	for _, e := range entries {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if Scalar(m["primary"]) == "Y" {
			return Scalar(m["value"])
		}
	}
	for _, e := range entries {
		if m, ok := e.(map[string]any); ok {
			return Scalar(m["value"])
		}
	}
	return ""
}

// Scalar converts a decoded JSON leaf to its string form. Objects with a
// "value" key are unwrapped first. Nulls, containers, and anything else
// non-scalar yield "".
func Scalar(v any) string {
	if m, ok := v.(map[string]any); ok {
		inner, present := m["value"]
		if !present {
			return ""
		}
		v = inner
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
