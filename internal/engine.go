package internal

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tangolint/tangolint/internal/lints"
	"github.com/tangolint/tangolint/internal/noqa"
	"github.com/tangolint/tangolint/internal/pyast"
	tt "github.com/tangolint/tangolint/internal/types"
)

// Engine lints Python device-server source. An engine holds only the
// set of disabled rule codes, so it is cheap to build and safe to
// reuse across files.
type Engine struct {
	disabledRules map[string]bool
}

// NewEngine creates a lint engine with the given rule codes disabled.
func NewEngine(disabled ...string) *Engine {
	e := &Engine{disabledRules: make(map[string]bool)}
	for _, code := range disabled {
		e.DisableRule(code)
	}
	return e
}

// DisableRule turns off a rule by its code.
func (e *Engine) DisableRule(code string) {
	e.disabledRules[code] = true
}

// LintSource lints one file's source and always comes back with a
// list. A file the parser rejects yields the single syntax-error
// finding; any unexpected failure while checking yields the single
// internal-error finding instead of propagating.
func (e *Engine) LintSource(src []byte) (issues []tt.Issue) {
	defer func() {
		if r := recover(); r != nil {
			issues = []tt.Issue{{
				Severity: tt.SeverityError,
				Code:     tt.CodeInternalError,
				Message:  fmt.Sprintf("Failed to parse file: %v", r),
			}}
		}
	}()
	return e.lintSource(src)
}

func (e *Engine) lintSource(src []byte) []tt.Issue {
	tree, err := pyast.Parse(src)
	if err != nil {
		return []tt.Issue{{
			Severity: tt.SeverityError,
			Code:     tt.CodeInternalError,
			Message:  fmt.Sprintf("Failed to parse file: %v", err),
		}}
	}
	defer tree.Close()

	if se := tree.SyntaxError(); se != nil {
		return []tt.Issue{{
			Line:     se.Line,
			Column:   se.Column,
			Severity: tt.SeverityError,
			Code:     tt.CodeSyntaxError,
			Message:  fmt.Sprintf("Syntax error: %s", se.Msg),
		}}
	}

	root := tree.Root()
	if !hasTangoImport(root) {
		return []tt.Issue{}
	}

	w := newWalker(e.disabledRules)
	w.walk(root, lints.NewRuleContext())
	issues := w.issues

	source := string(src)
	for _, rule := range lints.TextRules() {
		if e.disabledRules[rule.Code()] {
			continue
		}
		for _, v := range rule.CheckSource(source) {
			issues = append(issues, tt.Issue{
				Line:     v.Line,
				Column:   v.Column,
				Severity: rule.Severity(),
				Code:     rule.Code(),
				Message:  v.Message,
			})
		}
	}

	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Line != issues[j].Line {
			return issues[i].Line < issues[j].Line
		}
		return issues[i].Column < issues[j].Column
	})

	return noqa.Filter(issues, noqa.Parse(source))
}

// hasTangoImport reports whether any import statement in the module
// names a path containing "tango". The whole engine is gated on this:
// a file that never imports the framework yields no findings and runs
// no rules.
func hasTangoImport(root *pyast.Node) bool {
	found := false
	root.Walk(func(n *pyast.Node) bool {
		switch n.Kind() {
		case pyast.KindImport, pyast.KindImportFrom:
			for _, mod := range pyast.ImportModules(n) {
				if strings.Contains(mod, "tango") {
					found = true
					return false
				}
			}
		}
		return true
	})
	return found
}
