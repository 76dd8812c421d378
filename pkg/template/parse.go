package template

import (
	"fmt"
	"strings"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// Parse scans template text in a single forward pass and returns its AST.
// Block directives must balance before end-of-input; nesting depth is
// bounded by an explicit stack rather than the call stack.
func Parse(text string) (*Tree, error) {
	p := &parser{input: text, line: 1}
	return p.parse()
}

type blockFrame struct {
	kind     string
	line     int
	path     []string
	body     []Node
	elseBody []Node
	inElse   bool
}

type parser struct {
	input string
	pos   int
	line  int
	nodes []Node
	stack []blockFrame
}

func (p *parser) parse() (*Tree, error) {
	for p.pos < len(p.input) {
		next := strings.Index(p.input[p.pos:], openDelim)
		if next < 0 {
			p.appendNode(Literal{Text: p.input[p.pos:]})
			p.pos = len(p.input)
			break
		}
		if next > 0 {
			literal := p.input[p.pos : p.pos+next]
			p.appendNode(Literal{Text: literal})
			p.line += strings.Count(literal, "\n")
			p.pos += next
		}

		end := strings.Index(p.input[p.pos+len(openDelim):], closeDelim)
		if end < 0 {
			return nil, &ParseError{
				Kind:   ParseMalformedDirective,
				Line:   p.line,
				Detail: "unterminated directive, expected }}",
			}
		}
		expr := p.input[p.pos+len(openDelim) : p.pos+len(openDelim)+end]
		p.pos += len(openDelim) + end + len(closeDelim)

		if err := p.directive(strings.TrimSpace(expr)); err != nil {
			return nil, err
		}
		p.line += strings.Count(expr, "\n")
	}

	if len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		return nil, &ParseError{
			Kind:   ParseUnbalancedBlock,
			Line:   top.line,
			Detail: fmt.Sprintf("#%s block opened at line %d is never closed", top.kind, top.line),
		}
	}
	return &Tree{Nodes: p.nodes}, nil
}

func (p *parser) directive(expr string) error {
	switch {
	case expr == "":
		return &ParseError{Kind: ParseMalformedDirective, Line: p.line, Detail: "empty directive"}
	case strings.HasPrefix(expr, "#"):
		return p.openBlock(expr[1:])
	case strings.HasPrefix(expr, "/"):
		return p.closeBlock(strings.TrimSpace(expr[1:]))
	case expr == "else":
		return p.elseBranch()
	default:
		return p.interpolation(expr)
	}
}

func (p *parser) openBlock(rest string) error {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return &ParseError{Kind: ParseMalformedDirective, Line: p.line, Detail: "block directive missing kind"}
	}
	kind := fields[0]
	switch kind {
	case "each", "if", "unless":
	default:
		return &ParseError{
			Kind:   ParseMalformedDirective,
			Line:   p.line,
			Detail: fmt.Sprintf("unknown block directive #%s", kind),
		}
	}
	if len(fields) != 2 {
		return &ParseError{
			Kind:   ParseMalformedDirective,
			Line:   p.line,
			Detail: fmt.Sprintf("#%s expects exactly one path argument", kind),
		}
	}
	path, err := p.parsePath(fields[1])
	if err != nil {
		return err
	}
	p.stack = append(p.stack, blockFrame{kind: kind, line: p.line, path: path})
	return nil
}

func (p *parser) closeBlock(kind string) error {
	if len(p.stack) == 0 {
		return &ParseError{
			Kind:   ParseUnbalancedBlock,
			Line:   p.line,
			Detail: fmt.Sprintf("{{/%s}} without a matching opening directive", kind),
		}
	}
	top := p.stack[len(p.stack)-1]
	if top.kind != kind {
		return &ParseError{
			Kind:   ParseUnbalancedBlock,
			Line:   p.line,
			Detail: fmt.Sprintf("{{/%s}} closes #%s block opened at line %d", kind, top.kind, top.line),
		}
	}
	p.stack = p.stack[:len(p.stack)-1]

	switch top.kind {
	case "each":
		p.appendNode(Each{Path: top.path, Body: top.body, Line: top.line})
	case "if":
		p.appendNode(Cond{Path: top.path, Body: top.body, Else: top.elseBody, Line: top.line})
	case "unless":
		p.appendNode(Cond{Path: top.path, Negate: true, Body: top.body, Else: top.elseBody, Line: top.line})
	}
	return nil
}

func (p *parser) elseBranch() error {
	if len(p.stack) == 0 {
		return &ParseError{Kind: ParseMalformedDirective, Line: p.line, Detail: "{{else}} outside of a block"}
	}
	top := &p.stack[len(p.stack)-1]
	if top.kind == "each" {
		return &ParseError{Kind: ParseMalformedDirective, Line: p.line, Detail: "{{else}} is not valid inside #each"}
	}
	if top.inElse {
		return &ParseError{Kind: ParseMalformedDirective, Line: p.line, Detail: "duplicate {{else}} in block"}
	}
	top.inElse = true
	return nil
}

func (p *parser) interpolation(expr string) error {
	segments := splitPipes(expr)
	path, err := p.parsePath(strings.TrimSpace(segments[0]))
	if err != nil {
		return err
	}

	var filters []FilterCall
	for _, raw := range segments[1:] {
		call, err := p.parseFilter(strings.TrimSpace(raw))
		if err != nil {
			return err
		}
		filters = append(filters, call)
	}
	p.appendNode(Variable{Path: path, Filters: filters, Line: p.line})
	return nil
}

func (p *parser) parseFilter(raw string) (FilterCall, error) {
	if raw == "" {
		return FilterCall{}, &ParseError{Kind: ParseMalformedDirective, Line: p.line, Detail: "empty filter expression"}
	}
	name := raw
	rest := ""
	if i := strings.IndexAny(raw, " \t"); i >= 0 {
		name, rest = raw[:i], strings.TrimSpace(raw[i+1:])
	}
	spec, ok := filterRegistry[name]
	if !ok {
		return FilterCall{}, &ParseError{
			Kind:   ParseUnknownFilter,
			Line:   p.line,
			Detail: fmt.Sprintf("unknown filter %q", name),
		}
	}
	args, err := parseQuotedArgs(rest)
	if err != nil {
		return FilterCall{}, &ParseError{Kind: ParseMalformedDirective, Line: p.line, Detail: err.Error()}
	}
	if len(args) < spec.minArgs || len(args) > spec.maxArgs {
		return FilterCall{}, &ParseError{
			Kind:   ParseMalformedDirective,
			Line:   p.line,
			Detail: fmt.Sprintf("filter %q takes %d to %d arguments, got %d", name, spec.minArgs, spec.maxArgs, len(args)),
		}
	}
	return FilterCall{Name: name, Args: args}, nil
}

func (p *parser) parsePath(raw string) ([]string, error) {
	if raw == "" || strings.ContainsAny(raw, " \t\n{}") {
		return nil, &ParseError{
			Kind:   ParseMalformedDirective,
			Line:   p.line,
			Detail: fmt.Sprintf("invalid path %q", raw),
		}
	}
	segments := strings.Split(raw, ".")
	for _, segment := range segments {
		if segment == "" {
			return nil, &ParseError{
				Kind:   ParseMalformedDirective,
				Line:   p.line,
				Detail: fmt.Sprintf("invalid path %q", raw),
			}
		}
	}
	return segments, nil
}

func (p *parser) appendNode(n Node) {
	if len(p.stack) == 0 {
		p.nodes = append(p.nodes, n)
		return
	}
	top := &p.stack[len(p.stack)-1]
	if top.inElse {
		top.elseBody = append(top.elseBody, n)
		return
	}
	top.body = append(top.body, n)
}

// splitPipes splits a filter pipeline on | characters that sit outside
// single-quoted filter arguments.
func splitPipes(expr string) []string {
	var (
		parts  []string
		start  int
		quoted bool
	)
	for i := 0; i < len(expr); i++ {
		switch expr[i] {
		case '\'':
			quoted = !quoted
		case '|':
			if !quoted {
				parts = append(parts, expr[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, expr[start:])
	return parts
}

// parseQuotedArgs reads zero or more single-quoted arguments, matching the
// replace 'old' 'new' convention.
func parseQuotedArgs(raw string) ([]string, error) {
	var args []string
	rest := strings.TrimSpace(raw)
	for rest != "" {
		if rest[0] != '\'' {
			return nil, fmt.Errorf("filter arguments must be single-quoted, got %q", rest)
		}
		end := strings.IndexByte(rest[1:], '\'')
		if end < 0 {
			return nil, fmt.Errorf("unterminated filter argument in %q", raw)
		}
		args = append(args, rest[1:1+end])
		rest = strings.TrimSpace(rest[end+2:])
	}
	return args, nil
}
