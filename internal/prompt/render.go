package prompt

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// frame is one lookup scope. The root frame holds the request data; each
// iteration pushes a frame for the current element.
type frame struct {
	data any
	vars map[string]any
}

// Render produces the prompt text for data. Rendering only fails when an
// {{#each}} targets a value that is neither a list nor empty.
func (t *Template) Render(data map[string]any) (string, error) {
	var sb strings.Builder
	scopes := []frame{{data: data}}
	if err := renderNodes(&sb, t.nodes, scopes); err != nil {
		return "", fmt.Errorf("render %s: %w", t.name, err)
	}
	return sb.String(), nil
}

func renderNodes(sb *strings.Builder, nodes []Node, scopes []frame) error {
	for _, n := range nodes {
		switch n := n.(type) {
		case *TextNode:
			sb.WriteString(n.Text)

		case *VarNode:
			v, ok := lookup(scopes, n.Path)
			if n.HasFallback && (!ok || isEmpty(v)) {
				sb.WriteString(n.Fallback)
				continue
			}
			sb.WriteString(stringify(v))

		case *IfNode:
			v, _ := lookup(scopes, n.Path)
			branch := n.Else
			if truthy(v) != n.Negate {
				branch = n.Then
			}
			if err := renderNodes(sb, branch, scopes); err != nil {
				return err
			}

		case *EachNode:
			v, _ := lookup(scopes, n.Path)
			if v == nil {
				if err := renderNodes(sb, n.Else, scopes); err != nil {
					return err
				}
				continue
			}
			items, ok := v.([]any)
			if !ok {
				return fmt.Errorf("#each %s: expected a list, got %T", n.Path, v)
			}
			if len(items) == 0 {
				if err := renderNodes(sb, n.Else, scopes); err != nil {
					return err
				}
				continue
			}
			for i, item := range items {
				f := frame{
					data: item,
					vars: map[string]any{
						"@index":  float64(i),
						"@number": float64(i + 1),
						"@first":  i == 0,
						"@last":   i == len(items)-1,
					},
				}
				if err := renderNodes(sb, n.Body, append(scopes[:len(scopes):len(scopes)], f)); err != nil {
					return err
				}
			}

		default:
			return fmt.Errorf("unknown node type %T", n)
		}
	}
	return nil
}

// lookup resolves path against the innermost scope first, then outwards.
func lookup(scopes []frame, path string) (any, bool) {
	if strings.HasPrefix(path, "@") {
		for i := len(scopes) - 1; i >= 0; i-- {
			if v, ok := scopes[i].vars[path]; ok {
				return v, true
			}
		}
		return nil, false
	}

	parts := strings.Split(path, ".")
	if parts[0] == "this" {
		return resolve(scopes[len(scopes)-1].data, parts[1:])
	}

	for i := len(scopes) - 1; i >= 0; i-- {
		if v, ok := resolve(scopes[i].data, parts); ok {
			return v, true
		}
	}
	return nil, false
}

func resolve(data any, parts []string) (any, bool) {
	cur := data
	for _, part := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case fmt.Stringer:
		return v.String()
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}
