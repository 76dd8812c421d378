package template

import "strings"

// Node is implemented by every AST node produced by Parse.
type Node interface {
	node()
}

// Literal is raw passthrough text, preserved byte-for-byte.
type Literal struct {
	Text string
}

// Variable interpolates a dotted path, optionally piped through filters.
type Variable struct {
	Path    []string
	Filters []FilterCall
	Line    int
}

// FilterCall names a registered filter plus any quoted arguments.
type FilterCall struct {
	Name string
	Args []string
}

// Each evaluates its body once per element of the collection at Path,
// binding this, @index, @first, and @last for the body.
type Each struct {
	Path []string
	Body []Node
	Line int
}

// Cond renders Body when the condition at Path is truthy, Else otherwise.
// Negate inverts the test, which is how unless blocks are modelled.
type Cond struct {
	Path   []string
	Negate bool
	Body   []Node
	Else   []Node
	Line   int
}

func (Literal) node()  {}
func (Variable) node() {}
func (Each) node()     {}
func (Cond) node()     {}

// Tree is the parsed form of a template body. A Tree is owned by the
// definition it was parsed for and is safe for concurrent renders.
type Tree struct {
	Nodes []Node
}

func joinPath(path []string) string {
	return strings.Join(path, ".")
}
