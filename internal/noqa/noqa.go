// Package noqa parses inline "# noqa" suppression comments and filters
// findings against them. A bare marker suppresses every finding on its
// line; a marker with codes suppresses only those codes.
package noqa

import (
	"regexp"
	"strings"

	tt "github.com/tangolint/tangolint/internal/types"
)

// markerPattern accepts the conventional suppression spellings:
// "# noqa", "#noqa", and "# NOQA: T001, G007". The code list is
// case-insensitive and tolerates stray whitespace.
var markerPattern = regexp.MustCompile(`(?i)#\s*noqa(?::\s*([A-Z0-9,\s]+))?`)

// Suppression describes what one line suppresses.
type Suppression struct {
	// All suppresses every code on the line.
	All bool
	// Codes suppresses exactly these codes, stored uppercase.
	Codes map[string]struct{}
}

// Map holds the suppressions of one file keyed by 1-based line number.
// Absence of a line means nothing is suppressed there.
type Map map[int]Suppression

// Parse scans source for suppression markers. A marker whose code list
// is empty after trimming counts as bare.
func Parse(source string) Map {
	m := make(Map)
	for i, line := range strings.Split(source, "\n") {
		groups := markerPattern.FindStringSubmatch(line)
		if groups == nil {
			continue
		}
		codes := make(map[string]struct{})
		for _, c := range strings.Split(groups[1], ",") {
			c = strings.TrimSpace(c)
			if c != "" {
				codes[strings.ToUpper(c)] = struct{}{}
			}
		}
		if len(codes) == 0 {
			m[i+1] = Suppression{All: true}
		} else {
			m[i+1] = Suppression{Codes: codes}
		}
	}
	return m
}

// Suppressed reports whether a finding with the given code on the
// given line is silenced.
func (m Map) Suppressed(line int, code string) bool {
	s, ok := m[line]
	if !ok {
		return false
	}
	if s.All {
		return true
	}
	_, ok = s.Codes[strings.ToUpper(code)]
	return ok
}

// Filter returns the issues that survive the suppression map, keeping
// their order.
func Filter(issues []tt.Issue, m Map) []tt.Issue {
	if len(m) == 0 {
		return issues
	}
	out := make([]tt.Issue, 0, len(issues))
	for _, issue := range issues {
		if m.Suppressed(issue.Line, issue.Code) {
			continue
		}
		out = append(out, issue)
	}
	return out
}
