package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// Validate checks v against s and returns a normalized copy with defaults
// applied. All issues are collected; on failure the returned error is a
// *ValidationError and the value is nil.
//
// Validate is idempotent: validating its own output yields an equal value.
func Validate(s *Schema, v any) (any, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil schema", ErrValidation)
	}

	var issues []Issue
	out := validate(s, v, "", &issues)
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	return out, nil
}

// ValidateObject is Validate for object schemas, returning the map directly.
func ValidateObject(s *Schema, v any) (map[string]any, error) {
	out, err := Validate(s, v)
	if err != nil {
		return nil, err
	}
	m, ok := out.(map[string]any)
	if !ok {
		return nil, &ValidationError{Issues: []Issue{{Code: CodeType, Message: "expected object"}}}
	}
	return m, nil
}

func validate(s *Schema, v any, path string, issues *[]Issue) any {
	addIssue := func(code, format string, args ...any) {
		*issues = append(*issues, Issue{Path: path, Code: code, Message: fmt.Sprintf(format, args...)})
	}

	switch s.Kind {
	case KindAny:
		return normalize(v)

	case KindString:
		str, ok := v.(string)
		if !ok {
			addIssue(CodeType, "expected string, got %s", describe(v))
			return nil
		}
		if s.MinLength != nil && len([]rune(str)) < *s.MinLength {
			addIssue(CodeLength, "must be at least %d characters", *s.MinLength)
		}
		return str

	case KindNumber, KindInteger:
		f, ok := toFloat(v)
		if !ok {
			addIssue(CodeType, "expected %s, got %s", s.Kind, describe(v))
			return nil
		}
		if s.Kind == KindInteger && f != math.Trunc(f) {
			addIssue(CodeType, "expected integer, got %s", formatFloat(f))
			return nil
		}
		if s.Min != nil && f < *s.Min {
			addIssue(CodeRange, "must be >= %s", formatFloat(*s.Min))
		}
		if s.Max != nil && f > *s.Max {
			addIssue(CodeRange, "must be <= %s", formatFloat(*s.Max))
		}
		return f

	case KindBoolean:
		b, ok := v.(bool)
		if !ok {
			addIssue(CodeType, "expected boolean, got %s", describe(v))
			return nil
		}
		return b

	case KindEnum:
		str, ok := v.(string)
		if !ok {
			addIssue(CodeType, "expected string, got %s", describe(v))
			return nil
		}
		if !slices.Contains(s.Values, str) {
			addIssue(CodeEnum, "must be one of %s", strings.Join(s.Values, ", "))
			return nil
		}
		return str

	case KindArray:
		items, ok := toSlice(v)
		if !ok {
			addIssue(CodeType, "expected array, got %s", describe(v))
			return nil
		}
		if s.MinItems != nil && len(items) < *s.MinItems {
			addIssue(CodeLength, "must contain at least %d items", *s.MinItems)
		}
		if s.MaxItems != nil && len(items) > *s.MaxItems {
			addIssue(CodeLength, "must contain at most %d items", *s.MaxItems)
		}
		out := make([]any, len(items))
		for i, item := range items {
			itemPath := path + "[" + strconv.Itoa(i) + "]"
			if item == nil {
				*issues = append(*issues, Issue{Path: itemPath, Code: CodeRequired, Message: "element cannot be null"})
				continue
			}
			if s.Items == nil {
				out[i] = normalize(item)
				continue
			}
			out[i] = validate(s.Items, item, itemPath, issues)
		}
		return out

	case KindObject:
		m, ok := toMap(v)
		if !ok {
			addIssue(CodeType, "expected object, got %s", describe(v))
			return nil
		}
		out := make(map[string]any, len(s.Fields))
		for _, f := range s.Fields {
			fieldPath := joinPath(path, f.Name)
			val, present := m[f.Name]
			switch {
			case present && val != nil:
				out[f.Name] = validate(f.Schema, val, fieldPath, issues)
			case f.HasDefault:
				out[f.Name] = validate(f.Schema, f.Default, fieldPath, issues)
			case f.Required:
				*issues = append(*issues, Issue{Path: fieldPath, Code: CodeRequired, Message: "is required"})
			}
		}
		return out

	default:
		addIssue(CodeType, "unsupported schema kind %s", s.Kind)
		return nil
	}
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}

// normalize converts v into the canonical decoded-JSON representation.
func normalize(v any) any {
	if f, ok := toFloat(v); ok {
		return f
	}
	if items, ok := toSlice(v); ok {
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = normalize(item)
		}
		return out
	}
	if m, ok := toMap(v); ok {
		out := make(map[string]any, len(m))
		for k, item := range m {
			out[k] = normalize(item)
		}
		return out
	}
	return v
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toSlice(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	// []byte is a string-ish payload, not a list.
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func toMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	}
	if _, ok := toFloat(v); ok {
		return "number"
	}
	if _, ok := toSlice(v); ok {
		return "array"
	}
	if _, ok := toMap(v); ok {
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
