package prompt

// Node is one element of a parsed template.
type Node interface {
	node()
}

// TextNode is literal template text.
type TextNode struct {
	Text string
}

// VarNode substitutes the value at Path.
type VarNode struct {
	Path        string
	Fallback    string
	HasFallback bool
}

// IfNode renders Then when Path is truthy (falsy when Negate is set),
// otherwise Else.
type IfNode struct {
	Path   string
	Negate bool
	Then   []Node
	Else   []Node
}

// EachNode renders Body once per element of the list at Path, or Else when
// the list is empty or missing.
type EachNode struct {
	Path string
	Body []Node
	Else []Node
}

func (*TextNode) node() {}
func (*VarNode) node()  {}
func (*IfNode) node()   {}
func (*EachNode) node() {}
