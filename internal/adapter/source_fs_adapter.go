// Package adapter contains the infrastructure adapters of the suspect CLI:
// event-log files, run discovery, Go source lookup, report storage and
// file watching.
package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	m "github.com/mouse-blink/suspect/internal/model"
)

// SourceFSAdapter abstracts the filesystem operations needed to locate the
// event logs of recorded runs.
type SourceFSAdapter interface {
	// CollectRuns resolves the failing and passing inputs into runs with
	// dense ids: failing runs first, then passing runs.
	CollectRuns(failing, passing []m.Path) (relevant, irrelevant []m.Run, err error)

	// Walk traverses the provided root path. When recursive is false the
	// implementation should limit itself to the root directory (no sub-dirs).
	Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error

	// FileInfo returns metadata for a path.
	FileInfo(path m.Path) (os.FileInfo, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)
}

// FilepathWalkFunc mirrors the callback shape used by filepath.Walk. It is
// defined here to avoid leaking the standard-library type directly into the
// domain layer.
type FilepathWalkFunc func(path string, info os.FileInfo, err error) error

// LocalSourceFSAdapter is the disk-backed SourceFSAdapter.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// CollectRuns expands files and directories (a "/..." suffix descends into
// sub-directories) into event-log paths. A file listed in both sets is an error.
func (a *LocalSourceFSAdapter) CollectRuns(failing, passing []m.Path) ([]m.Run, []m.Run, error) {
	failingPaths, err := a.collectPaths(failing)
	if err != nil {
		return nil, nil, fmt.Errorf("failing runs: %w", err)
	}

	passingPaths, err := a.collectPaths(passing)
	if err != nil {
		return nil, nil, fmt.Errorf("passing runs: %w", err)
	}

	seen := make(map[string]bool, len(failingPaths))
	for _, p := range failingPaths {
		seen[p] = true
	}

	for _, p := range passingPaths {
		if seen[p] {
			return nil, nil, fmt.Errorf("event log %s is both passing and failing", p)
		}
	}

	relevant := make([]m.Run, 0, len(failingPaths))
	for i, p := range failingPaths {
		relevant = append(relevant, m.Run{ID: m.RunID(i), Path: m.Path(p), Failing: true})
	}

	irrelevant := make([]m.Run, 0, len(passingPaths))
	for i, p := range passingPaths {
		irrelevant = append(irrelevant, m.Run{ID: m.RunID(len(failingPaths) + i), Path: m.Path(p)})
	}

	return relevant, irrelevant, nil
}

func (a *LocalSourceFSAdapter) collectPaths(roots []m.Path) ([]string, error) {
	seen := make(map[string]struct{})

	var paths []string

	add := func(path string) {
		if _, exists := seen[path]; exists {
			return
		}

		seen[path] = struct{}{}
		paths = append(paths, path)
	}

	for _, root := range roots {
		rootPath, recursive, err := normalizeRootPath(string(root))
		if err != nil {
			return nil, err
		}

		info, err := a.FileInfo(m.Path(rootPath))
		if err != nil {
			return nil, fmt.Errorf("root path error: %w", err)
		}

		if !info.IsDir() {
			add(rootPath)

			continue
		}

		var found []string

		err = a.Walk(m.Path(rootPath), recursive, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() || isHidden(info.Name()) {
				return nil
			}

			found = append(found, path)

			return nil
		})
		if err != nil {
			return nil, err
		}

		sort.Strings(found)

		for _, path := range found {
			add(path)
		}
	}

	return paths, nil
}

// Walk iterates over files under root, optionally descending into subdirectories.
func (a *LocalSourceFSAdapter) Walk(root m.Path, recursive bool, fn FilepathWalkFunc) error {
	rootStr := string(root)

	return filepath.Walk(rootStr, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fn(path, info, err)
		}

		if info.IsDir() && path != rootStr && (!recursive || isHidden(info.Name())) {
			return filepath.SkipDir
		}

		return fn(path, info, nil)
	})
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func normalizeRootPath(root string) (string, bool, error) {
	rootStr, recursive := parseRootPath(root)

	if strings.HasPrefix(rootStr, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false, err
		}

		suffix := strings.TrimPrefix(rootStr, "~")
		suffix = strings.TrimPrefix(suffix, string(os.PathSeparator))
		rootStr = filepath.Join(home, suffix)
	}

	if rootStr == "" {
		rootStr = "."
	}

	abs, err := filepath.Abs(rootStr)
	if err != nil {
		return "", false, err
	}

	return abs, recursive, nil
}

func parseRootPath(rootStr string) (path string, recursive bool) {
	if len(rootStr) >= 4 && rootStr[len(rootStr)-4:] == "/..." {
		return rootStr[:len(rootStr)-4], true
	}

	return rootStr, false
}
