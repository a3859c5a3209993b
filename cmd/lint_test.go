package cmd

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tt "github.com/tangolint/tangolint/internal/types"
	"github.com/tangolint/tangolint/lint"
)

// Keep assertions free of escape codes.
func init() { color.NoColor = true }

func sampleResults() []lint.Result {
	return []lint.Result{
		{
			Path: "devices/motor.py",
			Issues: []tt.Issue{
				{
					Line: 4, Column: 0, Severity: tt.SeverityWarning, Code: "T001",
					Message: "Device class 'motor' should start with uppercase letter",
				},
				{
					Line: 9, Column: 4, Severity: tt.SeverityError, Code: "T032",
					Message: "Device class 'motor' must not override '__init__'; override 'init_device()' instead",
				},
			},
		},
		{Path: "util/clean.py", Issues: nil},
	}
}

func TestRenderResultsText(t *testing.T) {
	out, err := renderResults(sampleResults(), "text")
	require.NoError(t, err)

	assert.Contains(t, out, "TangoLint results: devices/motor.py")
	assert.Contains(t, out, "devices/motor.py:4:0: warning: T001 Device class 'motor' should start with uppercase letter")
	assert.Contains(t, out, "✓ util/clean.py: No issues found")
	assert.Contains(t, out, "Total: 1 error(s), 1 warning(s), 0 info message(s)")
}

func TestRenderResultsTextSingleFile(t *testing.T) {
	out, err := renderResults(sampleResults()[:1], "text")
	require.NoError(t, err)

	assert.Contains(t, out, "Summary: 1 error(s), 1 warning(s), 0 info message(s)")
	assert.NotContains(t, out, "Total:", "totals only appear for multiple files")
}

func TestRenderResultsJSON(t *testing.T) {
	out, err := renderResults(sampleResults(), "json")
	require.NoError(t, err)

	assert.Contains(t, out, `"devices/motor.py"`)
	assert.Contains(t, out, `"code": "T001"`)
	assert.Contains(t, out, `"severity": "error"`)
}

func TestRenderResultsSARIF(t *testing.T) {
	out, err := renderResults(sampleResults(), "sarif")
	require.NoError(t, err)

	assert.Contains(t, out, `"version": "2.1.0"`)
	assert.Contains(t, out, `"ruleId": "T032"`)
	assert.Contains(t, out, `"uri": "devices/motor.py"`)
}

func TestRenderResultsUnknownFormat(t *testing.T) {
	_, err := renderResults(nil, "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown output format "xml"`)
}

func TestResultMap(t *testing.T) {
	m := resultMap(sampleResults())

	require.Len(t, m, 2)
	assert.Len(t, m["devices/motor.py"], 2)
	assert.Empty(t, m["util/clean.py"])
}

func TestCountBySeverity(t *testing.T) {
	errs, warns, infos := countBySeverity(sampleResults())

	assert.Equal(t, 1, errs)
	assert.Equal(t, 1, warns)
	assert.Equal(t, 0, infos)
}

func TestNormalizeCodes(t *testing.T) {
	assert.Equal(t, []string{"T001", "G006"}, normalizeCodes([]string{" t001", "G006 ", ""}))
	assert.Empty(t, normalizeCodes(nil))
}
