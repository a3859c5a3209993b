// Package formatter renders lint results for people and machines: a
// colored per-file text report, a JSON map, and SARIF 2.1.0 for code
// scanning uploads.
package formatter

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	tt "github.com/tangolint/tangolint/internal/types"
)

const rulerWidth = 80

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	warningStyle = color.New(color.FgHiYellow, color.Bold)
	infoStyle    = color.New(color.FgHiBlue, color.Bold)
	okStyle      = color.New(color.FgGreen, color.Bold)
	headerStyle  = color.New(color.FgCyan, color.Bold)
)

func severityStyle(s tt.Severity) *color.Color {
	switch s {
	case tt.SeverityError:
		return errorStyle
	case tt.SeverityWarning:
		return warningStyle
	default:
		return infoStyle
	}
}

// FormatIssue renders one finding as "path:line:column: severity: code
// message" with the severity and code colored by severity. Colors
// follow the global color.NoColor switch.
func FormatIssue(path string, issue tt.Issue) string {
	tag := severityStyle(issue.Severity).Sprintf("%s: %s", issue.Severity, issue.Code)
	return fmt.Sprintf("%s:%d:%d: %s %s", path, issue.Line, issue.Column, tag, issue.Message)
}

// Format renders the report block for one file: a header, one line per
// finding, and a severity summary. A clean file renders as a single
// check line.
func Format(path string, issues []tt.Issue) string {
	if len(issues) == 0 {
		return okStyle.Sprint("✓") + fmt.Sprintf(" %s: No issues found\n", path)
	}

	var sb strings.Builder
	ruler := strings.Repeat("=", rulerWidth)
	sb.WriteString("\n" + ruler + "\n")
	sb.WriteString(headerStyle.Sprintf("TangoLint results: %s", path) + "\n")
	sb.WriteString(ruler + "\n\n")

	var errs, warns, infos int
	for _, issue := range issues {
		switch issue.Severity {
		case tt.SeverityError:
			errs++
		case tt.SeverityWarning:
			warns++
		default:
			infos++
		}
		sb.WriteString(FormatIssue(path, issue) + "\n")
	}

	thin := strings.Repeat("-", rulerWidth)
	sb.WriteString("\n" + thin + "\n")
	sb.WriteString(fmt.Sprintf("Summary: %d error(s), %d warning(s), %d info message(s)\n", errs, warns, infos))
	sb.WriteString(thin + "\n\n")
	return sb.String()
}

// FormatTotals renders the closing totals block printed after linting
// more than one file.
func FormatTotals(errs, warns, infos int) string {
	ruler := strings.Repeat("=", rulerWidth)
	return fmt.Sprintf("\n%s\nTotal: %d error(s), %d warning(s), %d info message(s)\n%s\n\n",
		ruler, errs, warns, infos, ruler)
}
