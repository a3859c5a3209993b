package formatter

import (
	"encoding/json"
	"fmt"

	tt "github.com/tangolint/tangolint/internal/types"
)

// JSON renders findings grouped by file path. Map keys marshal in
// sorted order, so the output is stable across runs.
func JSON(byFile map[string][]tt.Issue) (string, error) {
	data, err := json.MarshalIndent(byFile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal issues: %w", err)
	}
	return string(data), nil
}
