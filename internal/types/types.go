package types

import (
	"encoding/json"
	"fmt"
)

// Severity classifies how serious a finding is.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// MarshalJSON renders the severity as its lowercase name so machine
// output matches what the text reporter prints.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity %q", name)
	}
	return nil
}

// Reserved codes emitted by the engine itself rather than by a rule.
const (
	// CodeSyntaxError reports a file the parser could not read as Python.
	CodeSyntaxError = "E999"
	// CodeInternalError reports an unexpected failure while linting a file.
	CodeInternalError = "E000"
)

// Issue represents a single finding in one file. Line is 1-based and
// Column is 0-based, matching Python AST positions; a zero Line means
// the finding applies to the file as a whole.
type Issue struct {
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%d:%d: %s: %s %s", i.Line, i.Column, i.Severity, i.Code, i.Message)
}
