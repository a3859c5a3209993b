// Package lint wires the linting engine to the filesystem: it reads
// sources, fans file processing out over a worker pool, and reports
// per-file results in a stable order.
package lint

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/tangolint/tangolint/internal"
	tt "github.com/tangolint/tangolint/internal/types"
	"github.com/tangolint/tangolint/scanner"
)

// LintEngine abstracts the linting engine so commands and tests can
// substitute their own implementation.
type LintEngine interface {
	LintSource(source []byte) []tt.Issue
}

// Result pairs a linted file with the issues found in it. Issues carry
// positions only; the path lives here.
type Result struct {
	Path   string
	Issues []tt.Issue
}

// New creates an engine with the given rule codes disabled.
func New(disabled ...string) *internal.Engine {
	return internal.NewEngine(disabled...)
}

// ProcessSource lints a single in-memory source.
func ProcessSource(engine LintEngine, source []byte) []tt.Issue {
	return engine.LintSource(source)
}

// ProcessSources lints a batch of in-memory sources and returns one
// issue slice per source, in input order.
func ProcessSources(engine LintEngine, sources [][]byte) [][]tt.Issue {
	all := make([][]tt.Issue, len(sources))
	for i, src := range sources {
		all[i] = engine.LintSource(src)
	}
	return all
}

// ProcessFile lints the file at path. The engine itself performs no
// I/O, so reading the source happens here.
func ProcessFile(engine LintEngine, path string) ([]tt.Issue, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return engine.LintSource(source), nil
}

// ProcessFiles lints every given path, expanding directories, and
// returns the results in input order.
func ProcessFiles(ctx context.Context, logger *zap.Logger, engine LintEngine, paths []string) ([]Result, error) {
	var all []Result
	for _, path := range paths {
		results, err := ProcessPath(ctx, logger, engine, path)
		if err != nil {
			return nil, err
		}
		all = append(all, results...)
	}
	return all, nil
}

// ProcessPath lints path. A directory is scanned recursively for Python
// sources and linted concurrently; a single file is linted directly.
// Non-Python files yield no results.
func ProcessPath(ctx context.Context, logger *zap.Logger, engine LintEngine, path string) ([]Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if info.IsDir() {
		return processDir(ctx, logger, engine, path)
	}

	if !isPythonFile(path) {
		return nil, nil
	}
	issues, err := ProcessFile(engine, path)
	if err != nil {
		return nil, err
	}
	return []Result{{Path: path, Issues: issues}}, nil
}

func processDir(ctx context.Context, logger *zap.Logger, engine LintEngine, dir string) ([]Result, error) {
	files, err := scanner.New(dir).Scan()
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, nil
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription(fmt.Sprintf("Linting %s", dir)),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	results := make([]Result, len(files))
	sem := make(chan struct{}, runtime.NumCPU())

	for i, file := range files {
		// Bail out before queueing more work once the context is gone,
		// even when the pool still has room.
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		default:
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()

			issues, perr := ProcessFile(engine, path)
			mu.Lock()
			if perr != nil {
				if logger != nil {
					logger.Error("error processing file",
						zap.String("file", path),
						zap.Error(perr))
				}
				if firstErr == nil {
					firstErr = perr
				}
			} else {
				results[i] = Result{Path: path, Issues: issues}
			}
			mu.Unlock()
			_ = bar.Add(1)
		}(i, file.Path)
	}

	wg.Wait()
	fmt.Println()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

func isPythonFile(path string) bool {
	return filepath.Ext(path) == ".py"
}
