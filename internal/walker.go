package internal

import (
	"strings"

	"github.com/tangolint/tangolint/internal/lints"
	"github.com/tangolint/tangolint/internal/pyast"
	tt "github.com/tangolint/tangolint/internal/types"
)

// tangoBases are the base-class names that mark a class as a Tango
// device. Matching is by substring, so dotted spellings like
// tango.server.Device count as well.
var tangoBases = []string{
	"Device",
	"DeviceImpl",
	"BaseInterface",
	"base_interface.BaseInterface",
	"SKADevice",
}

func isDeviceClass(bases []string) bool {
	for _, base := range bases {
		for _, tb := range tangoBases {
			if strings.Contains(base, tb) {
				return true
			}
		}
	}
	return false
}

// walker drives one pre-order pass over a module, dispatching each
// node to the rules subscribed to its kind.
type walker struct {
	dispatchTable map[pyast.Kind][]lints.TreeRule
	issues        []tt.Issue
}

func newWalker(disabled map[string]bool) *walker {
	table := make(map[pyast.Kind][]lints.TreeRule)
	for _, rule := range lints.TreeRules() {
		if disabled[rule.Code()] {
			continue
		}
		for _, kind := range rule.Handles() {
			table[kind] = append(table[kind], rule)
			// Async functions run the same rules as regular ones.
			if kind == pyast.KindFunctionDef {
				table[pyast.KindAsyncFunctionDef] = append(table[pyast.KindAsyncFunctionDef], rule)
			}
		}
	}
	return &walker{dispatchTable: table, issues: make([]tt.Issue, 0)}
}

// walk visits n and its subtree. The context is a value: whatever a
// class or function entry changes vanishes when the call returns,
// which is what confines device-class state to the class body.
func (w *walker) walk(n *pyast.Node, ctx lints.RuleContext) {
	switch n.Kind() {
	case pyast.KindClassDef:
		// The derived context covers the class node itself and its body.
		// A nested class recomputes from its own bases, so a plain inner
		// class is not a device class.
		ctx.CurrentClass = n.Name()
		ctx.InDeviceClass = isDeviceClass(pyast.Bases(n))
		w.dispatch(n, ctx)
	case pyast.KindFunctionDef, pyast.KindAsyncFunctionDef:
		// The attribute/command specialization applies to this node's
		// dispatch only; the body is walked with the enclosing context.
		w.dispatch(n, w.functionContext(n, ctx))
	case pyast.KindAnnAssign:
		w.recordProperty(n, ctx)
		w.dispatch(n, ctx)
	default:
		w.dispatch(n, ctx)
	}
	for _, c := range n.NamedChildren() {
		w.walk(c, ctx)
	}
}

// dispatch runs every rule subscribed to the node's kind and records
// the violations. A violation without a node reports at line 0.
func (w *walker) dispatch(n *pyast.Node, ctx lints.RuleContext) {
	for _, rule := range w.dispatchTable[n.Kind()] {
		for _, v := range rule.Check(n, &ctx) {
			var line, column int
			if v.Node != nil {
				line, column = v.Node.Line(), v.Node.Column()
			}
			w.issues = append(w.issues, tt.Issue{
				Line:     line,
				Column:   column,
				Severity: rule.Severity(),
				Code:     rule.Code(),
				Message:  v.Message,
			})
		}
	}
}

// functionContext marks the context as attribute or command reader
// when the function carries a framework decorator, and accumulates the
// name. Decorator matching is by substring, so tango.server.attribute
// and a bare attribute both count.
func (w *walker) functionContext(n *pyast.Node, ctx lints.RuleContext) lints.RuleContext {
	if !ctx.InDeviceClass {
		return ctx
	}
	for _, dec := range n.Decorators() {
		name, kwargs, ok := pyast.DecoratorInfo(dec)
		if !ok {
			continue
		}
		if strings.Contains(name, "attribute") {
			ctx.IsTangoAttribute = true
			ctx.AttributeConfig = kwargs
			ctx.AttributeNames[n.Name()] = struct{}{}
		} else if strings.Contains(name, "command") {
			ctx.IsTangoCommand = true
			ctx.CommandNames[n.Name()] = struct{}{}
		}
	}
	return ctx
}

// recordProperty accumulates device_property names declared in a
// device class body.
func (w *walker) recordProperty(n *pyast.Node, ctx lints.RuleContext) {
	if !ctx.InDeviceClass {
		return
	}
	target := n.AssignTarget()
	value := n.AssignValue()
	if target == nil || target.Kind() != pyast.KindName {
		return
	}
	if value == nil || value.Kind() != pyast.KindCall {
		return
	}
	if strings.Contains(pyast.DottedName(value.CallFunc()), "device_property") {
		ctx.PropertyNames[target.Text()] = struct{}{}
	}
}
