package lints

import (
	"strings"
	"unicode"

	"github.com/tangolint/tangolint/internal/pyast"
)

func startsUpper(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}

// truthy mirrors Python truthiness for the literal values a decorator
// config can hold.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case int64:
		return x != 0
	case float64:
		return x != 0
	}
	return true
}

// isDevicePropertyDecl reports whether an annotated assignment declares
// a device property, and returns the property name when it does.
func isDevicePropertyDecl(n *pyast.Node) (string, bool) {
	target := n.AssignTarget()
	if target == nil || target.Kind() != pyast.KindName {
		return "", false
	}
	value := n.AssignValue()
	if value == nil || value.Kind() != pyast.KindCall {
		return "", false
	}
	if !strings.Contains(pyast.DottedName(value.CallFunc()), "device_property") {
		return "", false
	}
	return target.Text(), true
}

// firstCallTo returns the first call in the subtree whose resolved
// name satisfies match, in document order.
func firstCallTo(n *pyast.Node, match func(name string) bool) *pyast.Node {
	var found *pyast.Node
	n.Walk(func(c *pyast.Node) bool {
		if c.Kind() != pyast.KindCall {
			return true
		}
		if match(pyast.DottedName(c.CallFunc())) {
			found = c
			return false
		}
		return true
	})
	return found
}

// hasCallTo reports whether the subtree contains a call whose resolved
// name contains name.
func hasCallTo(n *pyast.Node, name string) bool {
	return firstCallTo(n, func(called string) bool {
		return strings.Contains(called, name)
	}) != nil
}

// callsSuperMethod reports whether the function body contains a
// super().<method>() call.
func callsSuperMethod(fn *pyast.Node, method string) bool {
	found := false
	fn.Walk(func(c *pyast.Node) bool {
		if c.Kind() != pyast.KindCall {
			return true
		}
		callee := c.CallFunc()
		if callee == nil || callee.Kind() != pyast.KindAttribute {
			return true
		}
		kids := callee.NamedChildren()
		if len(kids) != 2 || kids[1].Text() != method {
			return true
		}
		recv := kids[0]
		if recv.Kind() != pyast.KindCall {
			return true
		}
		recvFn := recv.CallFunc()
		if recvFn != nil && recvFn.Kind() == pyast.KindName && recvFn.Text() == "super" {
			found = true
			return false
		}
		return true
	})
	return found
}

// hasReadWriteAccess reports whether a decorator expression carries an
// access=...READ_WRITE... keyword.
func hasReadWriteAccess(dec *pyast.Node) bool {
	if dec.Kind() != pyast.KindCall {
		return false
	}
	val, ok := pyast.CallKeywords(dec)["access"]
	if !ok {
		return false
	}
	switch val.Kind() {
	case pyast.KindAttribute:
		kids := val.NamedChildren()
		return len(kids) == 2 && strings.Contains(kids[1].Text(), "READ_WRITE")
	case pyast.KindName:
		return strings.Contains(val.Text(), "READ_WRITE")
	}
	return false
}

// methodNames collects the names of every function defined directly in
// a class body.
func methodNames(class *pyast.Node) map[string]struct{} {
	out := make(map[string]struct{})
	for _, fn := range pyast.BodyFunctions(class) {
		out[fn.Name()] = struct{}{}
	}
	return out
}
