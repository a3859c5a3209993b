package pyast

import sitter "github.com/smacker/go-tree-sitter"

// Kind names the node shapes rules can subscribe to. Grammar nodes the
// linter has no vocabulary for map to KindUnknown but are still
// traversed, so rules fire inside them as usual.
type Kind int

const (
	KindUnknown Kind = iota
	KindModule
	KindClassDef
	KindFunctionDef
	KindAsyncFunctionDef
	KindImport
	KindImportFrom
	KindAssign
	KindAnnAssign
	KindExceptHandler
	KindCompare
	KindCall
	KindReturn
	KindPass
	KindName
	KindAttribute
	KindConstant
	KindExprStmt
)

var kindNames = map[Kind]string{
	KindUnknown:          "Unknown",
	KindModule:           "Module",
	KindClassDef:         "ClassDef",
	KindFunctionDef:      "FunctionDef",
	KindAsyncFunctionDef: "AsyncFunctionDef",
	KindImport:           "Import",
	KindImportFrom:       "ImportFrom",
	KindAssign:           "Assign",
	KindAnnAssign:        "AnnAssign",
	KindExceptHandler:    "ExceptHandler",
	KindCompare:          "Compare",
	KindCall:             "Call",
	KindReturn:           "Return",
	KindPass:             "Pass",
	KindName:             "Name",
	KindAttribute:        "Attribute",
	KindConstant:         "Constant",
	KindExprStmt:         "ExprStmt",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Node is one syntax node bound to the source it was parsed from.
type Node struct {
	inner *sitter.Node
	src   []byte
}

func (n *Node) wrap(inner *sitter.Node) *Node {
	if inner == nil {
		return nil
	}
	return &Node{inner: inner, src: n.src}
}

// Kind maps the grammar node onto the linter's vocabulary. A
// function_definition with an async marker becomes its own kind, and
// an assignment carrying an annotation becomes KindAnnAssign, the same
// split Python's ast makes.
func (n *Node) Kind() Kind {
	switch n.inner.Type() {
	case "module":
		return KindModule
	case "class_definition":
		return KindClassDef
	case "function_definition":
		if n.ChildOfType("async") != nil {
			return KindAsyncFunctionDef
		}
		return KindFunctionDef
	case "import_statement":
		return KindImport
	case "import_from_statement":
		return KindImportFrom
	case "assignment":
		if n.ChildOfType("type") != nil {
			return KindAnnAssign
		}
		return KindAssign
	case "except_clause":
		return KindExceptHandler
	case "comparison_operator":
		return KindCompare
	case "call":
		return KindCall
	case "return_statement":
		return KindReturn
	case "pass_statement":
		return KindPass
	case "identifier":
		return KindName
	case "attribute":
		return KindAttribute
	case "string", "concatenated_string", "integer", "float", "true", "false", "none":
		return KindConstant
	case "expression_statement":
		return KindExprStmt
	default:
		return KindUnknown
	}
}

// Type exposes the raw grammar node type for callers that need finer
// grain than Kind, such as telling list literals from dict literals.
func (n *Node) Type() string { return n.inner.Type() }

// Line is 1-based, matching Python ast line numbers.
func (n *Node) Line() int { return int(n.inner.StartPoint().Row) + 1 }

// Column is 0-based, matching Python ast column offsets.
func (n *Node) Column() int { return int(n.inner.StartPoint().Column) }

// Text returns the source slice the node spans.
func (n *Node) Text() string {
	return string(n.src[n.inner.StartByte():n.inner.EndByte()])
}

// IsNamed reports whether the node is a named grammar node rather than
// a punctuation or keyword token.
func (n *Node) IsNamed() bool { return n.inner.IsNamed() }

// Parent returns the enclosing node, nil at the module root.
func (n *Node) Parent() *Node { return n.wrap(n.inner.Parent()) }

// Children returns every child including keyword and operator tokens.
// Comparison rules need the operator tokens; most callers want
// NamedChildren instead.
func (n *Node) Children() []*Node {
	count := int(n.inner.ChildCount())
	out := make([]*Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, n.wrap(n.inner.Child(i)))
	}
	return out
}

// NamedChildren returns the named children with comments dropped,
// which is the closest tree-sitter gets to Python's ast child lists.
func (n *Node) NamedChildren() []*Node {
	count := int(n.inner.NamedChildCount())
	out := make([]*Node, 0, count)
	for i := 0; i < count; i++ {
		c := n.inner.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		out = append(out, n.wrap(c))
	}
	return out
}

// ChildOfType returns the first direct child whose grammar type is one
// of types, or nil.
func (n *Node) ChildOfType(types ...string) *Node {
	count := int(n.inner.ChildCount())
	for i := 0; i < count; i++ {
		c := n.inner.Child(i)
		for _, t := range types {
			if c.Type() == t {
				return n.wrap(c)
			}
		}
	}
	return nil
}

// Name returns the identifier of a class or function definition, or
// "" when the node carries none.
func (n *Node) Name() string {
	if c := n.ChildOfType("identifier"); c != nil {
		return c.Text()
	}
	return ""
}

// Block returns the body block of a definition or clause, nil when the
// node has none.
func (n *Node) Block() *Node { return n.ChildOfType("block") }

// Body returns the statements of a definition or clause body, with
// comments dropped the way Python's ast drops them.
func (n *Node) Body() []*Node {
	if b := n.Block(); b != nil {
		return b.NamedChildren()
	}
	return nil
}

// Annotation returns the type annotation of a function definition or
// assignment, nil when absent.
func (n *Node) Annotation() *Node { return n.ChildOfType("type") }

// AssignTarget returns the left-hand side of an assignment.
func (n *Node) AssignTarget() *Node {
	kids := n.NamedChildren()
	if len(kids) == 0 {
		return nil
	}
	return kids[0]
}

// AssignValue returns the right-hand side of an assignment, nil for a
// bare annotated declaration like "x: int".
func (n *Node) AssignValue() *Node {
	kids := n.NamedChildren()
	if len(kids) < 2 {
		return nil
	}
	last := kids[len(kids)-1]
	if last.Type() == "type" {
		return nil
	}
	return last
}

// CallFunc returns the function expression of a call node.
func (n *Node) CallFunc() *Node {
	kids := n.NamedChildren()
	if len(kids) == 0 {
		return nil
	}
	return kids[0]
}

// Params returns the positional parameters of a function definition,
// stopping at star markers so keyword-only arguments stay out of the
// count, just like args.args in Python's ast.
func (n *Node) Params() []*Node {
	ps := n.ChildOfType("parameters")
	if ps == nil {
		return nil
	}
	var out []*Node
	for _, c := range ps.NamedChildren() {
		switch c.Type() {
		case "identifier", "typed_parameter", "default_parameter", "typed_default_parameter":
			out = append(out, c)
		case "list_splat_pattern", "dictionary_splat_pattern", "keyword_separator":
			return out
		}
	}
	return out
}

// ParamDefaults returns every parameter default value of a function
// definition in declaration order, keyword-only defaults included.
func (n *Node) ParamDefaults() []*Node {
	ps := n.ChildOfType("parameters")
	if ps == nil {
		return nil
	}
	var out []*Node
	for _, c := range ps.NamedChildren() {
		switch c.Type() {
		case "default_parameter", "typed_default_parameter":
			kids := c.NamedChildren()
			if len(kids) > 1 {
				out = append(out, kids[len(kids)-1])
			}
		}
	}
	return out
}

// Decorators returns the decorator expressions attached to a function
// or class definition, outermost first. The grammar parents decorated
// definitions under a wrapper node, so the list comes from the parent.
func (n *Node) Decorators() []*Node {
	p := n.inner.Parent()
	if p == nil || p.Type() != "decorated_definition" {
		return nil
	}
	var out []*Node
	for i := 0; i < int(p.ChildCount()); i++ {
		c := p.Child(i)
		if c.Type() != "decorator" {
			continue
		}
		dec := n.wrap(c)
		if kids := dec.NamedChildren(); len(kids) > 0 {
			out = append(out, kids[0])
		}
	}
	return out
}

// ExceptType returns the exception expression of an except clause, nil
// for a bare except.
func (n *Node) ExceptType() *Node {
	kids := n.NamedChildren()
	if len(kids) == 0 || kids[0].Type() == "block" {
		return nil
	}
	return kids[0]
}

// Walk visits n and every named descendant in document order until fn
// returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.NamedChildren() {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}
