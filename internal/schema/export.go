package schema

import "strings"

const draft07 = "http://json-schema.org/draft-07/schema#"

// JSONSchema renders s as a draft-07 JSON Schema document.
func JSONSchema(s *Schema) map[string]any {
	doc := jsonSchema(s)
	doc["$schema"] = draft07
	return doc
}

func jsonSchema(s *Schema) map[string]any {
	doc := map[string]any{}
	if s.Description != "" {
		doc["description"] = s.Description
	}

	switch s.Kind {
	case KindString:
		doc["type"] = "string"
		if s.MinLength != nil {
			doc["minLength"] = *s.MinLength
		}
	case KindNumber, KindInteger:
		doc["type"] = s.Kind.String()
		if s.Min != nil {
			doc["minimum"] = *s.Min
		}
		if s.Max != nil {
			doc["maximum"] = *s.Max
		}
	case KindBoolean:
		doc["type"] = "boolean"
	case KindEnum:
		doc["type"] = "string"
		enum := make([]any, len(s.Values))
		for i, v := range s.Values {
			enum[i] = v
		}
		doc["enum"] = enum
	case KindArray:
		doc["type"] = "array"
		if s.Items != nil {
			doc["items"] = jsonSchema(s.Items)
		}
		if s.MinItems != nil {
			doc["minItems"] = *s.MinItems
		}
		if s.MaxItems != nil {
			doc["maxItems"] = *s.MaxItems
		}
	case KindObject:
		doc["type"] = "object"
		props := make(map[string]any, len(s.Fields))
		var required []any
		for _, f := range s.Fields {
			prop := jsonSchema(f.Schema)
			if f.HasDefault {
				prop["default"] = normalize(f.Default)
			}
			if !f.Required {
				allowNull(prop)
			}
			props[f.Name] = prop
			if f.Required {
				required = append(required, f.Name)
			}
		}
		doc["properties"] = props
		if len(required) > 0 {
			doc["required"] = required
		}
	}

	return doc
}

// allowNull widens prop to accept null, which Validate treats as an
// absent optional field.
func allowNull(prop map[string]any) {
	if t, ok := prop["type"].(string); ok {
		prop["type"] = []any{t, "null"}
	}
	if enum, ok := prop["enum"].([]any); ok {
		prop["enum"] = append(enum, nil)
	}
}

// HasPath reports whether the dotted path names a field reachable from s.
// Array schemas are traversed transparently, so "meals.mood" resolves
// through a list of meal objects.
func HasPath(s *Schema, path string) bool {
	if path == "" {
		return s != nil
	}
	cur := s
	for _, part := range strings.Split(path, ".") {
		for cur != nil && cur.Kind == KindArray {
			cur = cur.Items
		}
		if cur == nil || cur.Kind != KindObject {
			return false
		}
		f, ok := cur.Field(part)
		if !ok {
			return false
		}
		cur = f.Schema
	}
	return true
}
