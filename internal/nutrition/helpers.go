package nutrition

import (
	"github.com/phrazzld/nutri-api/internal/generation"
)

// photoMedia decodes the photoDataUri field into a media attachment.
func photoMedia(in map[string]any) ([]generation.Media, error) {
	uri, _ := in["photoDataUri"].(string)
	media, err := generation.ParseDataURI(uri)
	if err != nil {
		return nil, err
	}
	return []generation.Media{media}, nil
}

// items returns the list stored under key, or nil.
func items(m map[string]any, key string) []any {
	list, _ := m[key].([]any)
	return list
}

// countWhere counts list elements that are objects satisfying pred.
func countWhere(list []any, pred func(map[string]any) bool) int {
	n := 0
	for _, item := range list {
		if m, ok := item.(map[string]any); ok && pred(m) {
			n++
		}
	}
	return n
}

// filterWhere returns the list elements that are objects satisfying pred.
func filterWhere(list []any, pred func(map[string]any) bool) []any {
	out := []any{}
	for _, item := range list {
		if m, ok := item.(map[string]any); ok && pred(m) {
			out = append(out, m)
		}
	}
	return out
}

// has reports whether key is set on m. Validated values never hold nil.
func has(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}

// defaultList sets key to an empty list when it is missing or null.
func defaultList(out map[string]any, key string) {
	if out[key] == nil {
		out[key] = []any{}
	}
}
