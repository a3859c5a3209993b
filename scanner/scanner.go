// Package scanner discovers Python source files under a directory tree.
package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileInfo describes a single discovered source file.
type FileInfo struct {
	Path string
	Size int64
}

// Scanner walks a directory tree and collects files matching a set of
// extensions. Directories that never hold device-server sources, such
// as __pycache__ and hidden directories, are skipped entirely.
type Scanner struct {
	rootDir    string
	extensions []string
}

// New returns a Scanner rooted at rootDir. When no extensions are
// given the scanner collects Python sources.
func New(rootDir string, extensions ...string) *Scanner {
	if len(extensions) == 0 {
		extensions = []string{".py"}
	}
	return &Scanner{
		rootDir:    rootDir,
		extensions: extensions,
	}
}

// Scan walks the tree and returns the matching files sorted by path.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var files []FileInfo

	err := filepath.Walk(s.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path != s.rootDir && skipDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.isTargetFile(path) {
			files = append(files, FileInfo{
				Path: path,
				Size: info.Size(),
			})
		}
		return nil
	})

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files, err
}

func skipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	switch name {
	case "__pycache__", "venv", "node_modules":
		return true
	}
	return false
}

func (s *Scanner) isTargetFile(path string) bool {
	ext := filepath.Ext(path)
	for _, targetExt := range s.extensions {
		if ext == targetExt {
			return true
		}
	}
	return false
}
