package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tangolint/tangolint/formatter"
	tt "github.com/tangolint/tangolint/internal/types"
	"github.com/tangolint/tangolint/lint"
)

var (
	disableRules []string
	strict       bool
	outFormat    string
	outPath      string
)

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Run the normal lint process",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine := lint.New(normalizeCodes(disableRules)...)

		runNormalLintProcess(ctx, logger, engine, args, outFormat, outPath)
	},
}

func init() {
	lintCmd.Flags().StringSliceVar(&disableRules, "disable", nil, "Comma-separated list of rule codes to disable")
	lintCmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as errors for the exit status")
	lintCmd.Flags().StringVar(&outFormat, "format", "text", "Output format: text, json or sarif")
	lintCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using a machine format)")
}

func runNormalLintProcess(ctx context.Context, logger *zap.Logger, engine lint.LintEngine, paths []string, format, outPath string) {
	warnNonPython(paths)

	results, err := lint.ProcessFiles(ctx, logger, engine, paths)
	if err != nil {
		logger.Error("Error processing files", zap.Error(err))
		os.Exit(1)
	}

	printResults(logger, results, format, outPath)

	errs, warns, _ := countBySeverity(results)
	if errs > 0 || (strict && warns > 0) {
		os.Exit(1)
	}
}

// warnNonPython notes explicit file arguments the linter will skip.
// Directories are expanded later and need no notice here.
func warnNonPython(paths []string) {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if filepath.Ext(path) != ".py" {
			fmt.Printf("Skipping non-Python file: %s\n", path)
		}
	}
}

func printResults(logger *zap.Logger, results []lint.Result, format, outPath string) {
	output, err := renderResults(results, format)
	if err != nil {
		logger.Error("Error formatting results", zap.Error(err))
		os.Exit(1)
	}

	if outPath == "" {
		fmt.Print(output)
		return
	}

	if err := os.WriteFile(outPath, []byte(output), 0o644); err != nil {
		logger.Error("Error writing output file", zap.String("path", outPath), zap.Error(err))
		os.Exit(1)
	}
}

func renderResults(results []lint.Result, format string) (string, error) {
	switch format {
	case "json":
		return formatter.JSON(resultMap(results))
	case "sarif":
		return formatter.SARIF(resultMap(results))
	case "text", "":
		var sb strings.Builder
		for _, r := range results {
			sb.WriteString(formatter.Format(r.Path, r.Issues))
		}
		if len(results) > 1 {
			errs, warns, infos := countBySeverity(results)
			sb.WriteString(formatter.FormatTotals(errs, warns, infos))
		}
		return sb.String(), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}

func resultMap(results []lint.Result) map[string][]tt.Issue {
	byFile := make(map[string][]tt.Issue, len(results))
	for _, r := range results {
		byFile[r.Path] = append(byFile[r.Path], r.Issues...)
	}
	return byFile
}

func countBySeverity(results []lint.Result) (errs, warns, infos int) {
	for _, r := range results {
		for _, issue := range r.Issues {
			switch issue.Severity {
			case tt.SeverityError:
				errs++
			case tt.SeverityWarning:
				warns++
			case tt.SeverityInfo:
				infos++
			}
		}
	}
	return errs, warns, infos
}

func normalizeCodes(codes []string) []string {
	normalized := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != "" {
			normalized = append(normalized, code)
		}
	}
	return normalized
}
