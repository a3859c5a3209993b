// Package internal provides the core functionality of the tangolint tool.
//
// This package implements the linting engine that analyzes PyTango device
// server source code for API misuse, missing metadata and general Python
// problems. Rules are registered by the internal/lints package and
// dispatched by node kind while the engine walks the parsed tree.
//
// Key components:
//
// Engine: The main linting engine that coordinates the linting process.
// It parses a source buffer, gates on the presence of a tango import,
// walks the tree against the registered rules and filters suppressed
// issues.
//
// walker: The tree traversal that maintains the rule context (current
// class, attribute/command/property registries) and dispatches each node
// to the rules that handle its kind.
//
// Issue: Represents a single finding, including its position, severity,
// rule code and message (internal/types).
//
// The engine performs no file I/O and never returns an error: unreadable
// input surfaces as an E000 issue and broken Python as an E999 issue.
//
// Usage:
//
//	engine := internal.NewEngine("G007")
//
//	issues := engine.LintSource(source)
//	for _, issue := range issues {
//	    fmt.Printf("%d:%d: %s %s\n", issue.Line, issue.Column, issue.Code, issue.Message)
//	}
//
// This package is intended for internal use within the linting tool and
// should not be imported by external packages.
package internal
