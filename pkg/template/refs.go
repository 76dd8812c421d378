package template

import "sort"

// loop-local bindings available inside an #each body.
var loopBindings = map[string]struct{}{
	"this":   {},
	"@index": {},
	"@first": {},
	"@last":  {},
}

// CheckRefs walks the tree and returns the dotted paths of variable
// references whose root segment is neither a declared name, a reserved
// token, nor a loop-local binding in scope. Definitions surface these as
// load-time errors so schema drift never becomes a render-time surprise.
func CheckRefs(tree *Tree, declared []string, reserved []string) []string {
	known := make(map[string]struct{}, len(declared)+len(reserved))
	for _, name := range declared {
		known[name] = struct{}{}
	}
	for _, name := range reserved {
		known[name] = struct{}{}
	}

	unresolved := make(map[string]struct{})
	checkNodes(tree.Nodes, known, 0, unresolved)

	if len(unresolved) == 0 {
		return nil
	}
	out := make([]string, 0, len(unresolved))
	for path := range unresolved {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

func checkNodes(nodes []Node, known map[string]struct{}, loopDepth int, unresolved map[string]struct{}) {
	for _, node := range nodes {
		switch n := node.(type) {
		case Variable:
			checkPath(n.Path, known, loopDepth, unresolved)
		case Each:
			checkPath(n.Path, known, loopDepth, unresolved)
			checkNodes(n.Body, known, loopDepth+1, unresolved)
		case Cond:
			checkPath(n.Path, known, loopDepth, unresolved)
			checkNodes(n.Body, known, loopDepth, unresolved)
			checkNodes(n.Else, known, loopDepth, unresolved)
		}
	}
}

func checkPath(path []string, known map[string]struct{}, loopDepth int, unresolved map[string]struct{}) {
	root := path[0]
	if _, ok := known[root]; ok {
		return
	}
	if loopDepth > 0 {
		if _, ok := loopBindings[root]; ok {
			return
		}
	}
	unresolved[joinPath(path)] = struct{}{}
}
