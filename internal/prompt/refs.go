package prompt

import "strings"

// Reference is a data path used by a template. Scopes lists the enclosing
// {{#each}} paths from outermost to innermost; Path is resolved against the
// innermost scope first at render time.
type Reference struct {
	Path   string
	Scopes []string
}

// Candidates returns the fully qualified paths Path may resolve to, from
// the innermost scope outwards.
func (r Reference) Candidates() []string {
	out := make([]string, 0, len(r.Scopes)+1)
	for i := len(r.Scopes); i >= 0; i-- {
		parts := append(append([]string(nil), r.Scopes[:i]...), r.Path)
		out = append(out, strings.Join(parts, "."))
	}
	return out
}

// References lists every data path the template reads, excluding the
// iteration variables (@index, @first, ...) and bare {{this}}.
func (t *Template) References() []Reference {
	var refs []Reference
	collectRefs(t.nodes, nil, &refs)
	return refs
}

func collectRefs(nodes []Node, scopes []string, refs *[]Reference) {
	add := func(path string) {
		if strings.HasPrefix(path, "@") || path == "this" {
			return
		}
		path = strings.TrimPrefix(path, "this.")
		*refs = append(*refs, Reference{Path: path, Scopes: append([]string(nil), scopes...)})
	}

	for _, n := range nodes {
		switch n := n.(type) {
		case *VarNode:
			add(n.Path)
		case *IfNode:
			add(n.Path)
			collectRefs(n.Then, scopes, refs)
			collectRefs(n.Else, scopes, refs)
		case *EachNode:
			add(n.Path)
			collectRefs(n.Body, append(scopes[:len(scopes):len(scopes)], n.Path), refs)
			collectRefs(n.Else, scopes, refs)
		}
	}
}
