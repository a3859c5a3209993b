// Package lints holds the rule catalog. Rules come in two flavors:
// tree rules subscribe to syntax node kinds and run during the walk,
// text rules see the raw source once per file. Each rule file
// registers its rules from init, so importing the package is enough
// to populate the registry.
package lints

import (
	"sort"
	"sync"

	"github.com/tangolint/tangolint/internal/pyast"
	tt "github.com/tangolint/tangolint/internal/types"
)

// RuleContext tells a rule where the walker currently is. Contexts are
// derived values: entering a class or function produces a fresh one
// for that subtree, so nothing a rule observes can leak between
// siblings. The name sets accumulate across the whole walk in source
// order and are shared by every derived context.
type RuleContext struct {
	InDeviceClass    bool
	CurrentClass     string
	IsTangoAttribute bool
	IsTangoCommand   bool
	AttributeConfig  map[string]any

	AttributeNames map[string]struct{}
	CommandNames   map[string]struct{}
	PropertyNames  map[string]struct{}
}

// NewRuleContext returns the context a walk starts from, with empty
// accumulator sets allocated.
func NewRuleContext() RuleContext {
	return RuleContext{
		AttributeConfig: map[string]any{},
		AttributeNames:  map[string]struct{}{},
		CommandNames:    map[string]struct{}{},
		PropertyNames:   map[string]struct{}{},
	}
}

// Violation is one finding from a tree rule. The node locates the
// finding; a nil node reports at the file level.
type Violation struct {
	Node    *pyast.Node
	Message string
}

// SourceViolation is one finding from a text rule, located directly by
// line and column.
type SourceViolation struct {
	Line    int
	Column  int
	Message string
}

// TreeRule checks syntax nodes of the kinds it subscribes to.
type TreeRule interface {
	Code() string
	Severity() tt.Severity
	Doc() string
	Handles() []pyast.Kind
	Check(node *pyast.Node, ctx *RuleContext) []Violation
}

// TextRule checks the raw source once per file.
type TextRule interface {
	Code() string
	Severity() tt.Severity
	Doc() string
	CheckSource(source string) []SourceViolation
}

// treeRule is the standard TreeRule implementation rule files declare.
type treeRule struct {
	code     string
	severity tt.Severity
	doc      string
	handles  []pyast.Kind
	check    func(node *pyast.Node, ctx *RuleContext) []Violation
}

func (r *treeRule) Code() string                                      { return r.code }
func (r *treeRule) Severity() tt.Severity                             { return r.severity }
func (r *treeRule) Doc() string                                       { return r.doc }
func (r *treeRule) Handles() []pyast.Kind                             { return r.handles }
func (r *treeRule) Check(n *pyast.Node, ctx *RuleContext) []Violation { return r.check(n, ctx) }

// textRule is the standard TextRule implementation.
type textRule struct {
	code     string
	severity tt.Severity
	doc      string
	check    func(source string) []SourceViolation
}

func (r *textRule) Code() string                             { return r.code }
func (r *textRule) Severity() tt.Severity                    { return r.severity }
func (r *textRule) Doc() string                              { return r.doc }
func (r *textRule) CheckSource(src string) []SourceViolation { return r.check(src) }

var (
	regMu        sync.RWMutex
	regTreeRules []TreeRule
	regTextRules []TextRule
	regCodes     = map[string]bool{}
)

// Register adds a tree rule to the catalog. The first registration of
// a code wins; later ones are dropped, so registering twice cannot
// duplicate findings.
func Register(r TreeRule) {
	regMu.Lock()
	defer regMu.Unlock()
	if regCodes[r.Code()] {
		return
	}
	regCodes[r.Code()] = true
	regTreeRules = append(regTreeRules, r)
}

// RegisterText adds a text rule to the catalog with the same
// first-registration-wins behavior as Register.
func RegisterText(r TextRule) {
	regMu.Lock()
	defer regMu.Unlock()
	if regCodes[r.Code()] {
		return
	}
	regCodes[r.Code()] = true
	regTextRules = append(regTextRules, r)
}

// TreeRules returns the registered tree rules in registration order.
func TreeRules() []TreeRule {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]TreeRule, len(regTreeRules))
	copy(out, regTreeRules)
	return out
}

// TextRules returns the registered text rules in registration order.
func TextRules() []TextRule {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]TextRule, len(regTextRules))
	copy(out, regTextRules)
	return out
}

// Info describes one registered rule for listings.
type Info struct {
	Code     string
	Severity tt.Severity
	Doc      string
}

// List returns every registered rule sorted by code.
func List() []Info {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]Info, 0, len(regTreeRules)+len(regTextRules))
	for _, r := range regTreeRules {
		out = append(out, Info{Code: r.Code(), Severity: r.Severity(), Doc: r.Doc()})
	}
	for _, r := range regTextRules {
		out = append(out, Info{Code: r.Code(), Severity: r.Severity(), Doc: r.Doc()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
