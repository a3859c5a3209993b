package lints

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tangolint/tangolint/internal/pyast"
	tt "github.com/tangolint/tangolint/internal/types"
)

// maxLineLength is the budget the long-line rule enforces.
const maxLineLength = 88

// The G-codes are general Python checks that stay meaningful inside
// device-server code, plus one raw-source rule for line length.
func init() {
	Register(&treeRule{
		code: "G001", severity: tt.SeverityWarning,
		doc:     "Bare except clause catches every exception; specify the type.",
		handles: []pyast.Kind{pyast.KindExceptHandler},
		check:   checkBareExcept,
	})
	Register(&treeRule{
		code: "G002", severity: tt.SeverityWarning,
		doc:     "Empty except block silently swallows exceptions.",
		handles: []pyast.Kind{pyast.KindExceptHandler},
		check:   checkEmptyExcept,
	})
	Register(&treeRule{
		code: "G003", severity: tt.SeverityWarning,
		doc:     "Use 'is'/'is not' when comparing against None, True, or False.",
		handles: []pyast.Kind{pyast.KindCompare},
		check:   checkSingletonComparison,
	})
	Register(&treeRule{
		code: "G004", severity: tt.SeverityWarning,
		doc:     "Mutable default argument; use None and initialise inside the function.",
		handles: []pyast.Kind{pyast.KindFunctionDef},
		check:   checkMutableDefault,
	})
	Register(&treeRule{
		code: "G005", severity: tt.SeverityWarning,
		doc:     "Star import pollutes the namespace; import names explicitly.",
		handles: []pyast.Kind{pyast.KindImportFrom},
		check:   checkStarImport,
	})
	Register(&treeRule{
		code: "G006", severity: tt.SeverityInfo,
		doc:     "Multiple modules on one import line; use separate statements.",
		handles: []pyast.Kind{pyast.KindImport},
		check:   checkMultipleImports,
	})
	RegisterText(&textRule{
		code: "G007", severity: tt.SeverityInfo,
		doc:   "Line exceeds the maximum allowed length.",
		check: checkLineLength,
	})
	Register(&treeRule{
		code: "G008", severity: tt.SeverityInfo,
		doc:     "print() in a device class method; use Tango stream methods instead.",
		handles: []pyast.Kind{pyast.KindFunctionDef},
		check:   checkPrintInDevice,
	})
}

func checkBareExcept(n *pyast.Node, ctx *RuleContext) []Violation {
	if n.ExceptType() != nil {
		return nil
	}
	return []Violation{{
		Node:    n,
		Message: "Bare except clause catches all exceptions; specify the exception type",
	}}
}

func checkEmptyExcept(n *pyast.Node, ctx *RuleContext) []Violation {
	body := n.Body()
	if len(body) != 1 || body[0].Kind() != pyast.KindPass {
		return nil
	}
	return []Violation{{
		Node:    n,
		Message: "Empty except block silently swallows exceptions; add error handling or a comment",
	}}
}

func singletonMessage(op string, operand *pyast.Node) string {
	switch operand.Type() {
	case "none", "true", "false":
	default:
		return ""
	}
	name := operand.Text()
	switch op {
	case "==":
		return fmt.Sprintf("Use 'is %s' instead of '== %s'", name, name)
	case "!=":
		return fmt.Sprintf("Use 'is not %s' instead of '!= %s'", name, name)
	}
	return ""
}

func checkSingletonComparison(n *pyast.Node, ctx *RuleContext) []Violation {
	var (
		operands []*pyast.Node
		ops      []string
	)
	for _, c := range n.Children() {
		switch {
		case c.Type() == "comment":
		case c.IsNamed():
			operands = append(operands, c)
		default:
			ops = append(ops, c.Type())
		}
	}

	var out []Violation
	for i, op := range ops {
		if i+1 >= len(operands) {
			break
		}
		if msg := singletonMessage(op, operands[i+1]); msg != "" {
			out = append(out, Violation{Node: n, Message: msg})
		}
	}
	// Also catch the reversed form: None == x, True != x, etc.
	if len(operands) > 0 && len(ops) > 0 {
		if msg := singletonMessage(ops[0], operands[0]); msg != "" {
			out = append(out, Violation{Node: n, Message: msg})
		}
	}
	return out
}

func checkMutableDefault(n *pyast.Node, ctx *RuleContext) []Violation {
	for _, def := range n.ParamDefaults() {
		switch def.Type() {
		case "list", "dictionary", "set":
			return []Violation{{
				Node: n,
				Message: fmt.Sprintf(
					"Mutable default argument in '%s'; use None and initialise inside the function",
					n.Name()),
			}}
		}
	}
	return nil
}

func checkStarImport(n *pyast.Node, ctx *RuleContext) []Violation {
	if n.ChildOfType("wildcard_import") == nil {
		return nil
	}
	module := ""
	if mods := pyast.ImportModules(n); len(mods) > 0 {
		module = mods[0]
	}
	return []Violation{{
		Node: n,
		Message: fmt.Sprintf(
			"Star import 'from %s import *' pollutes the namespace; import names explicitly", module),
	}}
}

func checkMultipleImports(n *pyast.Node, ctx *RuleContext) []Violation {
	if len(pyast.ImportModules(n)) <= 1 {
		return nil
	}
	return []Violation{{
		Node:    n,
		Message: "Multiple imports on one line; use a separate import statement for each module",
	}}
}

func checkLineLength(source string) []SourceViolation {
	var out []SourceViolation
	for i, line := range strings.Split(source, "\n") {
		length := utf8.RuneCountInString(strings.TrimRight(line, "\r\n"))
		if length > maxLineLength {
			out = append(out, SourceViolation{
				Line:    i + 1,
				Column:  maxLineLength + 1,
				Message: fmt.Sprintf("Line too long (%d > %d characters)", length, maxLineLength),
			})
		}
	}
	return out
}

func checkPrintInDevice(n *pyast.Node, ctx *RuleContext) []Violation {
	if !ctx.InDeviceClass {
		return nil
	}
	var out []Violation
	n.Walk(func(c *pyast.Node) bool {
		if c.Kind() != pyast.KindCall {
			return true
		}
		fn := c.CallFunc()
		if fn == nil || fn.Kind() != pyast.KindName || fn.Text() != "print" {
			return true
		}
		out = append(out, Violation{
			Node: c,
			Message: fmt.Sprintf(
				"print() in device method '%s'; use Tango stream methods (self.debug_stream, self.info_stream, etc.) instead",
				n.Name()),
		})
		return true
	})
	return out
}
