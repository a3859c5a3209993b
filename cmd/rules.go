package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tangolint/tangolint/internal/lints"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List all registered lint rules",
	Run: func(cmd *cobra.Command, args []string) {
		printRules()
	},
}

func printRules() {
	infos := lints.List()

	width := 0
	for _, info := range infos {
		if len(info.Code) > width {
			width = len(info.Code)
		}
	}

	for _, info := range infos {
		fmt.Printf("%-*s [%-7s]  %s\n", width+2, info.Code, info.Severity, info.Doc)
	}
}
