package prompt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSyntax is wrapped by every template parse error.
var ErrSyntax = errors.New("template syntax error")

// Template is a parsed prompt template. It is immutable and safe for
// concurrent use.
type Template struct {
	name  string
	nodes []Node
}

// Name returns the template name given to Parse.
func (t *Template) Name() string { return t.name }

type tokenKind int

const (
	tokText tokenKind = iota
	tokVar
	tokOpen
	tokElse
	tokClose
)

type token struct {
	kind        tokenKind
	text        string // literal text, or block keyword for open/close
	path        string
	fallback    string
	hasFallback bool
	offset      int
}

// Parse compiles text into a Template.
func Parse(name, text string) (*Template, error) {
	tokens, err := lex(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	p := &parser{tokens: tokens}
	nodes, err := p.parseUntil("")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return &Template{name: name, nodes: nodes}, nil
}

// MustParse is Parse that panics on error. It is meant for package-level
// template definitions.
func MustParse(name, text string) *Template {
	t, err := Parse(name, text)
	if err != nil {
		panic(err)
	}
	return t
}

func syntaxError(offset int, format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, offset, fmt.Sprintf(format, args...))
}

func lex(text string) ([]token, error) {
	var tokens []token
	pos := 0
	for pos < len(text) {
		open := strings.Index(text[pos:], "{{")
		if open < 0 {
			tokens = append(tokens, token{kind: tokText, text: text[pos:], offset: pos})
			break
		}
		if open > 0 {
			tokens = append(tokens, token{kind: tokText, text: text[pos : pos+open], offset: pos})
		}
		start := pos + open
		end := strings.Index(text[start+2:], "}}")
		if end < 0 {
			return nil, syntaxError(start, "unterminated tag")
		}
		body := strings.TrimSpace(text[start+2 : start+2+end])
		pos = start + 2 + end + 2

		if strings.HasPrefix(body, "!") {
			continue
		}
		tok, err := lexTag(body, start)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

func lexTag(body string, offset int) (token, error) {
	switch {
	case body == "":
		return token{}, syntaxError(offset, "empty tag")

	case body == "else":
		return token{kind: tokElse, offset: offset}, nil

	case strings.HasPrefix(body, "#"):
		keyword, arg, _ := strings.Cut(body[1:], " ")
		arg = strings.TrimSpace(arg)
		if keyword != "if" && keyword != "unless" && keyword != "each" {
			return token{}, syntaxError(offset, "unknown block %q", keyword)
		}
		if !validPath(arg) {
			return token{}, syntaxError(offset, "invalid path %q in #%s", arg, keyword)
		}
		return token{kind: tokOpen, text: keyword, path: arg, offset: offset}, nil

	case strings.HasPrefix(body, "/"):
		return token{kind: tokClose, text: strings.TrimSpace(body[1:]), offset: offset}, nil
	}

	path, fallback, hasFallback := strings.Cut(body, "|")
	path = strings.TrimSpace(path)
	if !validPath(path) {
		return token{}, syntaxError(offset, "invalid path %q", path)
	}
	tok := token{kind: tokVar, path: path, offset: offset}
	if hasFallback {
		literal, err := strconv.Unquote(strings.TrimSpace(fallback))
		if err != nil {
			return token{}, syntaxError(offset, "fallback for %q must be a quoted string", path)
		}
		tok.fallback = literal
		tok.hasFallback = true
	}
	return tok, nil
}

func validPath(path string) bool {
	if path == "" {
		return false
	}
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			return false
		}
		for i, r := range part {
			switch {
			case r == '@' && i == 0:
			case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			case r >= '0' && r <= '9' && i > 0:
			default:
				return false
			}
		}
	}
	return true
}

type parser struct {
	tokens []token
	pos    int
}

// parseUntil consumes nodes until the close tag for block (or EOF when block
// is empty). The close tag itself is consumed.
func (p *parser) parseUntil(block string) ([]Node, error) {
	nodes, _, err := p.parseBlock(block, 0, false)
	return nodes, err
}

// parseBlock returns the main and else branches of a block.
func (p *parser) parseBlock(block string, openOffset int, allowElse bool) ([]Node, []Node, error) {
	var main, alt []Node
	cur := &main
	seenElse := false

	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		p.pos++

		switch tok.kind {
		case tokText:
			*cur = append(*cur, &TextNode{Text: tok.text})

		case tokVar:
			*cur = append(*cur, &VarNode{Path: tok.path, Fallback: tok.fallback, HasFallback: tok.hasFallback})

		case tokElse:
			if !allowElse || seenElse {
				return nil, nil, syntaxError(tok.offset, "unexpected {{else}}")
			}
			seenElse = true
			cur = &alt

		case tokClose:
			if tok.text != block {
				if block == "" {
					return nil, nil, syntaxError(tok.offset, "unexpected {{/%s}}", tok.text)
				}
				return nil, nil, syntaxError(tok.offset, "expected {{/%s}}, found {{/%s}}", block, tok.text)
			}
			return main, alt, nil

		case tokOpen:
			body, elseBody, err := p.parseBlock(tok.text, tok.offset, true)
			if err != nil {
				return nil, nil, err
			}
			switch tok.text {
			case "each":
				*cur = append(*cur, &EachNode{Path: tok.path, Body: body, Else: elseBody})
			default:
				*cur = append(*cur, &IfNode{Path: tok.path, Negate: tok.text == "unless", Then: body, Else: elseBody})
			}
		}
	}

	if block != "" {
		return nil, nil, syntaxError(openOffset, "unclosed {{#%s}}", block)
	}
	return main, alt, nil
}
