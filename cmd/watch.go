package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tangolint/tangolint/formatter"
	"github.com/tangolint/tangolint/lint"
)

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Re-lint Python files as they change",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		engine := lint.New(normalizeCodes(disableRules)...)

		if err := watchPaths(logger, engine, args); err != nil {
			logger.Error("Error watching files", zap.Error(err))
			os.Exit(1)
		}
	},
}

func init() {
	watchCmd.Flags().StringSliceVar(&disableRules, "disable", nil, "Comma-separated list of rule codes to disable")
}

func watchPaths(logger *zap.Logger, engine lint.LintEngine, paths []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, path := range paths {
		if err := addWatchTarget(watcher, path); err != nil {
			return err
		}
	}

	fmt.Println("Watching for changes. Press Ctrl+C to stop.")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleFileEvent(logger, engine, event)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watcher error", zap.Error(werr))
		}
	}
}

// addWatchTarget registers path with the watcher. Directories are walked
// so that changes anywhere in the tree are seen.
func addWatchTarget(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if !info.IsDir() {
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	}

	err = filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	return nil
}

func handleFileEvent(logger *zap.Logger, engine lint.LintEngine, event fsnotify.Event) {
	if event.Op&fsnotify.Write != fsnotify.Write {
		return
	}
	if !strings.HasSuffix(event.Name, ".py") {
		return
	}

	// wait for a while after file change to consider multiple changes as one
	time.Sleep(100 * time.Millisecond)

	issues, err := lint.ProcessFile(engine, event.Name)
	if err != nil {
		logger.Error("Error processing file", zap.String("file", event.Name), zap.Error(err))
		return
	}
	fmt.Print(formatter.Format(event.Name, issues))
}
