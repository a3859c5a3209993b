package lints

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangolint/tangolint/internal/pyast"
	tt "github.com/tangolint/tangolint/internal/types"
)

func TestListIsSortedAndComplete(t *testing.T) {
	t.Parallel()

	infos := List()
	require.NotEmpty(t, infos)

	codes := make([]string, len(infos))
	for i, info := range infos {
		codes[i] = info.Code
	}
	assert.True(t, sort.StringsAreSorted(codes), "listing should be sorted by code")

	for _, want := range []string{
		"T001", "T010", "T011",
		"T020", "T021", "T022", "T023", "T024", "T025",
		"T030", "T031", "T032", "T033", "T034", "T035",
		"T040", "T041", "T042", "T043", "T044", "T045", "T046", "T047", "T049",
		"G001", "G002", "G003", "G004", "G005", "G006", "G007", "G008",
	} {
		assert.Contains(t, codes, want)
	}
}

func TestCodesUniqueAcrossVariants(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, info := range List() {
		assert.False(t, seen[info.Code], "duplicate code %s", info.Code)
		seen[info.Code] = true
	}
}

func TestRegisterFirstCodeWins(t *testing.T) {
	before := len(TreeRules())

	Register(&treeRule{
		code: "T001", severity: tt.SeverityInfo,
		doc:     "duplicate registration must be dropped",
		handles: []pyast.Kind{pyast.KindModule},
		check:   func(*pyast.Node, *RuleContext) []Violation { return nil },
	})

	assert.Len(t, TreeRules(), before, "duplicate code should not register")
	for _, info := range List() {
		if info.Code == "T001" {
			assert.Equal(t, tt.SeverityWarning, info.Severity, "original registration should survive")
		}
	}
}

func TestRuleMetadata(t *testing.T) {
	t.Parallel()

	for _, rule := range TreeRules() {
		assert.NotEmpty(t, rule.Code())
		assert.NotEmpty(t, rule.Doc(), "rule %s needs a summary", rule.Code())
		assert.NotEmpty(t, rule.Handles(), "rule %s subscribes to no kinds", rule.Code())
	}
	for _, rule := range TextRules() {
		assert.NotEmpty(t, rule.Code())
		assert.NotEmpty(t, rule.Doc(), "rule %s needs a summary", rule.Code())
	}
}
