// Package pyast parses Python source with the tree-sitter grammar and
// exposes the node shapes lint rules reason about. The vocabulary
// deliberately mirrors Python's own ast module: line numbers are
// 1-based, column offsets 0-based, comments are invisible, and an
// annotated assignment is a different kind from a plain one.
package pyast

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// SyntaxError marks the first point where the source stops being
// readable as Python.
type SyntaxError struct {
	Line   int // 1-based
	Column int // 0-based
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

// Tree is a parsed module together with the source it came from.
type Tree struct {
	tree *sitter.Tree
	src  []byte
}

// Parse parses src as a Python module. The underlying parser is error
// tolerant, so a non-nil Tree may still describe broken source; call
// SyntaxError to find out.
func Parse(src []byte) (*Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse python source: %w", err)
	}
	return &Tree{tree: tree, src: src}, nil
}

// Root returns the module node.
func (t *Tree) Root() *Node {
	return &Node{inner: t.tree.RootNode(), src: t.src}
}

// Close releases the parser memory backing the tree. Nodes derived
// from the tree must not be used afterwards.
func (t *Tree) Close() {
	t.tree.Close()
}

// SyntaxError returns the first error or missing node in document
// order, or nil when the source parsed cleanly.
func (t *Tree) SyntaxError() *SyntaxError {
	root := t.tree.RootNode()
	if !root.HasError() {
		return nil
	}
	bad := firstBadNode(root)
	if bad == nil {
		bad = root
	}
	return &SyntaxError{
		Line:   int(bad.StartPoint().Row) + 1,
		Column: int(bad.StartPoint().Column),
		Msg:    "invalid syntax",
	}
}

func firstBadNode(n *sitter.Node) *sitter.Node {
	if n.IsMissing() || n.Type() == "ERROR" {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if bad := firstBadNode(n.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}
