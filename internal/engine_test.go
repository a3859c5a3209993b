package internal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangolint/tangolint/internal/lints"
	"github.com/tangolint/tangolint/internal/pyast"
	tt "github.com/tangolint/tangolint/internal/types"
)

func lintStr(t *testing.T, src string, disabled ...string) []tt.Issue {
	t.Helper()
	return NewEngine(disabled...).LintSource([]byte(src))
}

func codesOf(issues []tt.Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Code
	}
	return out
}

const cleanDevice = `"""A well-formed power supply device."""
from tango.server import Device, attribute, command, device_property


class PowerSupply(Device):
    """Controls a laboratory power supply."""

    Host: str = device_property(dtype=str, default_value="localhost", doc="host")

    def init_device(self):
        """Initialise the device."""
        super().init_device()
        self._voltage = 0.0

    @attribute(label="Voltage", unit="V", description="Output voltage", dtype=float)
    def voltage(self) -> float:
        """The measured output voltage."""
        return self._voltage

    @command(dtype_in=float, dtype_out=float)
    def Ramp(self, target: float) -> float:
        """Ramp the output to the target voltage."""
        self._voltage = target
        return self._voltage
`

func TestLintSourceCleanDevice(t *testing.T) {
	t.Parallel()

	issues := lintStr(t, cleanDevice)
	assert.NotNil(t, issues)
	assert.Empty(t, issues, "a well-formed device should produce no findings")
}

func TestNoTangoImportGate(t *testing.T) {
	t.Parallel()

	plain := `import os, sys


class motor(Device):
    pass
`
	issues := lintStr(t, plain)
	assert.NotNil(t, issues)
	assert.Empty(t, issues, "files that never import tango are not device servers")

	gated := "import tango\n" + plain
	assert.NotEmpty(t, lintStr(t, gated), "the same problems surface once tango is imported")

	viaPytango := "import pytango\n" + plain
	assert.NotEmpty(t, lintStr(t, viaPytango), "any import path containing tango opens the gate")
}

func TestSyntaxErrorReporting(t *testing.T) {
	t.Parallel()

	issues := lintStr(t, "def broken(:\n")
	require.Len(t, issues, 1, "a broken file reports exactly the syntax error")

	issue := issues[0]
	assert.Equal(t, tt.CodeSyntaxError, issue.Code)
	assert.Equal(t, tt.SeverityError, issue.Severity)
	assert.Equal(t, "Syntax error: invalid syntax", issue.Message)
	assert.GreaterOrEqual(t, issue.Line, 1)
}

func TestSyntaxErrorBeatsImportGate(t *testing.T) {
	t.Parallel()

	// No tango import anywhere, yet the syntax error is still reported:
	// parsing happens before the gate.
	issues := lintStr(t, "import os\ndef broken(:\n")
	require.Len(t, issues, 1)
	assert.Equal(t, tt.CodeSyntaxError, issues[0].Code)
}

func TestAttributeFindings(t *testing.T) {
	t.Parallel()

	for _, def := range []string{"def", "async def"} {
		t.Run(def, func(t *testing.T) {
			src := `from tango.server import Device, attribute

class Sensor(Device):
    def init_device(self):
        super().init_device()

    @attribute
    ` + def + ` temperature(self):
        return 25.0
`
			issues := lintStr(t, src)
			assert.Equal(t, []string{"T020", "T021", "T023", "T024", "T044"}, codesOf(issues))

			for _, issue := range issues {
				assert.Equal(t, 8, issue.Line)
				assert.Equal(t, 4, issue.Column)
			}
			assert.Equal(t, tt.SeverityWarning, issues[0].Severity)
			assert.Equal(t, tt.SeverityError, issues[1].Severity)
			assert.Equal(t, "Attribute 'temperature' must have return type annotation", issues[1].Message)
		})
	}
}

func TestCommandFindings(t *testing.T) {
	t.Parallel()

	src := `from tango.server import Device, command

class Sensor(Device):
    def init_device(self):
        super().init_device()

    @command
    def do_reset(self, force):
        self._on = False
`
	issues := lintStr(t, src)
	assert.Equal(t, []string{"T030", "T031", "T049"}, codesOf(issues))
	assert.Contains(t, issues[2].Message, "dtype_in")
}

func TestNestedClassScope(t *testing.T) {
	t.Parallel()

	nested := `import tango

class Controller(Device):
    def init_device(self):
        super().init_device()

    class helper:
        def __init__(self):
            pass
`
	issues := lintStr(t, nested)
	assert.Empty(t, issues, "a plain nested class is not a device class")

	direct := `import tango

class Controller(Device):
    def init_device(self):
        super().init_device()

    def __init__(self):
        pass
`
	issues = lintStr(t, direct)
	assert.Equal(t, []string{"T032"}, codesOf(issues))
}

func TestIssueOrdering(t *testing.T) {
	t.Parallel()

	src := "import tango\n" +
		"# " + strings.Repeat("x", 87) + "\n" +
		"import os, sys\n"
	issues := lintStr(t, src)

	require.Equal(t, []string{"G007", "G006"}, codesOf(issues),
		"issues are ordered by position, not by rule kind")
	assert.Equal(t, 2, issues[0].Line)
	assert.Equal(t, 89, issues[0].Column)
	assert.Equal(t, 3, issues[1].Line)
	assert.Equal(t, 0, issues[1].Column)
}

func TestMultipleImportsSingleIssue(t *testing.T) {
	t.Parallel()

	issues := lintStr(t, "import tango\nimport os, sys, json\n")
	assert.Equal(t, []string{"G006"}, codesOf(issues), "one finding per import line, however many modules")
}

func TestLineLengthBoundary(t *testing.T) {
	t.Parallel()

	at88 := "import tango\n# " + strings.Repeat("x", 86) + "\n"
	assert.Empty(t, lintStr(t, at88))

	at89 := "import tango\n# " + strings.Repeat("x", 87) + "\n"
	issues := lintStr(t, at89)
	require.Equal(t, []string{"G007"}, codesOf(issues))
	assert.Equal(t, 89, issues[0].Column)
}

func TestNoqaSuppression(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		marker string
		want   []string
	}{
		{"bare marker silences the line", "# noqa", nil},
		{"matching code", "# noqa: G006", nil},
		{"lowercase code", "# noqa: g006", nil},
		{"unrelated code keeps the finding", "# noqa: T001", []string{"G006"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src := "import tango\nimport os, sys  " + tc.marker + "\n"
			issues := lintStr(t, src)
			if tc.want == nil {
				assert.Empty(t, issues)
			} else {
				assert.Equal(t, tc.want, codesOf(issues))
			}
		})
	}
}

func TestDisableRule(t *testing.T) {
	t.Parallel()

	src := "import tango\n# " + strings.Repeat("x", 87) + "\nimport os, sys\n"

	assert.Equal(t, []string{"G006"}, codesOf(lintStr(t, src, "G007")))
	assert.Empty(t, lintStr(t, src, "G006", "G007"))

	assert.Equal(t, []string{"G007", "G006"}, codesOf(lintStr(t, src, "g007")),
		"disable codes are matched exactly; normalization is the caller's job")
}

func TestEngineReuse(t *testing.T) {
	t.Parallel()

	engine := NewEngine()

	first := engine.LintSource([]byte("def broken(:\n"))
	require.Equal(t, []string{"E999"}, codesOf(first))

	second := engine.LintSource([]byte(cleanDevice))
	assert.Empty(t, second, "a failed parse leaves no state behind")

	again := engine.LintSource([]byte("def broken(:\n"))
	assert.Equal(t, first, again, "the same input produces the same findings")
}

// panicRule blows up when its marker appears in the module, so the
// recovery path can be exercised without a defective real rule.
type panicRule struct{}

func (panicRule) Code() string          { return "X900" }
func (panicRule) Severity() tt.Severity { return tt.SeverityError }
func (panicRule) Doc() string           { return "panics on a marker, for recovery tests" }
func (panicRule) Handles() []pyast.Kind { return []pyast.Kind{pyast.KindModule} }
func (panicRule) Check(n *pyast.Node, ctx *lints.RuleContext) []lints.Violation {
	if strings.Contains(n.Text(), "panic_marker") {
		panic("rule blew up")
	}
	return nil
}

func TestLintSourceRecoversFromPanic(t *testing.T) {
	lints.Register(panicRule{})

	issues := NewEngine().LintSource([]byte("import tango\npanic_marker = 1\n"))
	require.Len(t, issues, 1)

	issue := issues[0]
	assert.Equal(t, tt.CodeInternalError, issue.Code)
	assert.Equal(t, tt.SeverityError, issue.Severity)
	assert.Contains(t, issue.Message, "Failed to parse file:")
	assert.Equal(t, 0, issue.Line)
	assert.Equal(t, 0, issue.Column)
}
