package gemini

import (
	"fmt"
	"strings"

	"github.com/phrazzld/nutri-api/internal/generation"
	"github.com/phrazzld/nutri-api/internal/schema"
	"github.com/tidwall/gjson"
	"google.golang.org/genai"
)

// toGenaiSchema converts a schema descriptor into the model's response
// schema.
func toGenaiSchema(s *schema.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{Description: s.Description}
	switch s.Kind {
	case schema.KindString:
		out.Type = genai.TypeString
		if s.MinLength != nil {
			out.MinLength = int64Ptr(*s.MinLength)
		}
	case schema.KindNumber:
		out.Type = genai.TypeNumber
		out.Minimum, out.Maximum = s.Min, s.Max
	case schema.KindInteger:
		out.Type = genai.TypeInteger
		out.Minimum, out.Maximum = s.Min, s.Max
	case schema.KindBoolean:
		out.Type = genai.TypeBoolean
	case schema.KindEnum:
		out.Type = genai.TypeString
		out.Format = "enum"
		out.Enum = append([]string(nil), s.Values...)
	case schema.KindArray:
		out.Type = genai.TypeArray
		out.Items = toGenaiSchema(s.Items)
		if s.MinItems != nil {
			out.MinItems = int64Ptr(*s.MinItems)
		}
		if s.MaxItems != nil {
			out.MaxItems = int64Ptr(*s.MaxItems)
		}
	case schema.KindObject:
		out.Type = genai.TypeObject
		out.Properties = make(map[string]*genai.Schema, len(s.Fields))
		for _, f := range s.Fields {
			out.Properties[f.Name] = toGenaiSchema(f.Schema)
			if f.Required {
				out.Required = append(out.Required, f.Name)
			}
		}
	default:
		// Any: the model has no untyped schema, so leave it unconstrained
		// apart from allowing null.
		nullable := true
		out.Nullable = &nullable
	}
	return out
}

func int64Ptr(v int) *int64 {
	n := int64(v)
	return &n
}

// extractJSON finds the JSON value in a model answer. It accepts the raw
// text, a ```json fenced block, or the outermost {...} span.
func extractJSON(text string) (any, error) {
	for _, candidate := range jsonCandidates(text) {
		if gjson.Valid(candidate) {
			result := gjson.Parse(candidate)
			if result.IsObject() || result.IsArray() {
				return result.Value(), nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %w: response is not a JSON object", generation.ErrInvalidResponse, generation.ErrNoOutput)
}

func jsonCandidates(text string) []string {
	text = strings.TrimSpace(text)
	candidates := []string{text}

	if start := strings.Index(text, "```"); start >= 0 {
		body := text[start+3:]
		body = strings.TrimPrefix(body, "json")
		body = strings.TrimPrefix(body, "JSON")
		if end := strings.Index(body, "```"); end >= 0 {
			candidates = append(candidates, strings.TrimSpace(body[:end]))
		}
	}

	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		candidates = append(candidates, text[start:end+1])
	}
	return candidates
}
