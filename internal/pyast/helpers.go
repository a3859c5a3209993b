package pyast

import (
	"strconv"
	"strings"
)

// DottedName resolves a name, attribute chain, or call target to its
// dotted form, e.g. "tango.server.attribute" or "self.debug_stream".
// A call resolves to the name of what is being called. Expressions
// with no name shape resolve to "".
func DottedName(n *Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind() {
	case KindName:
		return n.Text()
	case KindAttribute:
		kids := n.NamedChildren()
		if len(kids) != 2 {
			return ""
		}
		return DottedName(kids[0]) + "." + kids[1].Text()
	case KindCall:
		return DottedName(n.CallFunc())
	default:
		return ""
	}
}

// ConstantValue returns the Go value of a literal node: string, int64,
// float64, or bool. None and anything that is not a literal come back
// as nil, which is also how Python folds them together.
func ConstantValue(n *Node) any {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "string":
		return StringContent(n)
	case "integer":
		v, err := strconv.ParseInt(strings.ReplaceAll(n.Text(), "_", ""), 0, 64)
		if err != nil {
			return nil
		}
		return v
	case "float":
		v, err := strconv.ParseFloat(strings.ReplaceAll(n.Text(), "_", ""), 64)
		if err != nil {
			return nil
		}
		return v
	case "true":
		return true
	case "false":
		return false
	default:
		return nil
	}
}

// StringContent returns the text between a string literal's quotes
// with any r/b/f/u prefix dropped. Escape sequences stay as written.
func StringContent(n *Node) string {
	raw := n.Text()
	i := strings.IndexAny(raw, `"'`)
	if i < 0 {
		return ""
	}
	raw = raw[i:]
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(raw, q) {
			raw = strings.TrimPrefix(raw, q)
			return strings.TrimSuffix(raw, q)
		}
	}
	return raw
}

// Docstring returns the docstring of a module, class, or function
// body and whether one is present at all. An empty docstring reports
// present=true with content "".
func Docstring(n *Node) (string, bool) {
	var body []*Node
	if n.Kind() == KindModule {
		body = n.NamedChildren()
	} else {
		body = n.Body()
	}
	if len(body) == 0 || body[0].Kind() != KindExprStmt {
		return "", false
	}
	kids := body[0].NamedChildren()
	if len(kids) != 1 {
		return "", false
	}
	switch kids[0].Type() {
	case "string":
		return StringContent(kids[0]), true
	case "concatenated_string":
		var b strings.Builder
		for _, part := range kids[0].NamedChildren() {
			if part.Type() == "string" {
				b.WriteString(StringContent(part))
			}
		}
		return b.String(), true
	}
	return "", false
}

// Bases returns the base class names of a class definition the way
// Python's ast reports them: plain identifiers and dotted attribute
// chains. Subscripted and keyword bases are skipped.
func Bases(class *Node) []string {
	args := class.ChildOfType("argument_list")
	if args == nil {
		return nil
	}
	var out []string
	for _, a := range args.NamedChildren() {
		switch a.Kind() {
		case KindName:
			out = append(out, a.Text())
		case KindAttribute:
			out = append(out, DottedName(a))
		}
	}
	return out
}

// BodyFunctions returns the function definitions declared directly in
// a class or function body, looking through decorator wrappers.
func BodyFunctions(n *Node) []*Node {
	var out []*Node
	for _, stmt := range n.Body() {
		switch stmt.Type() {
		case "function_definition":
			out = append(out, stmt)
		case "decorated_definition":
			if def := stmt.ChildOfType("function_definition"); def != nil {
				out = append(out, def)
			}
		}
	}
	return out
}

// CallKeywords returns the keyword arguments of a call node mapped to
// their value expressions.
func CallKeywords(call *Node) map[string]*Node {
	out := make(map[string]*Node)
	args := call.ChildOfType("argument_list")
	if args == nil {
		return out
	}
	for _, a := range args.NamedChildren() {
		if a.Type() != "keyword_argument" {
			continue
		}
		kids := a.NamedChildren()
		if len(kids) < 2 || kids[0].Type() != "identifier" {
			continue
		}
		out[kids[0].Text()] = kids[1]
	}
	return out
}

// ImportModules returns the module paths an import statement names:
// every module of a plain import line, or the single source module of
// a from-import. Aliases are resolved to the module path, not the
// bound name.
func ImportModules(n *Node) []string {
	switch n.Kind() {
	case KindImport:
		var out []string
		for _, c := range n.NamedChildren() {
			switch c.Type() {
			case "dotted_name":
				out = append(out, c.Text())
			case "aliased_import":
				if name := c.ChildOfType("dotted_name"); name != nil {
					out = append(out, name.Text())
				}
			}
		}
		return out
	case KindImportFrom:
		for _, c := range n.NamedChildren() {
			if c.Type() == "dotted_name" || c.Type() == "relative_import" {
				return []string{c.Text()}
			}
		}
	}
	return nil
}

// DecoratorInfo resolves a decorator expression to its dotted name and
// literal keyword arguments. Keyword values that are not literals map
// to nil, matching how the config is consulted for presence as much as
// for value. The last return is false for shapes that carry no name,
// such as subscripts.
func DecoratorInfo(dec *Node) (string, map[string]any, bool) {
	switch dec.Kind() {
	case KindCall:
		kwargs := make(map[string]any)
		for name, val := range CallKeywords(dec) {
			kwargs[name] = ConstantValue(val)
		}
		return DottedName(dec.CallFunc()), kwargs, true
	case KindName, KindAttribute:
		return DottedName(dec), map[string]any{}, true
	}
	return "", nil, false
}
