// Package walker discovers ingestable documents under a directory tree.
package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"tagrag/internal/reader"
)

// Options controls a directory scan.
type Options struct {
	// Extensions restricts results to these file extensions (e.g. ".md").
	// Empty means every extension the reader package supports.
	Extensions []string
	// Include holds optional doublestar glob patterns matched against the
	// path relative to the scan root. Empty means every supported file.
	Include []string
	// MaxFiles caps the result set; zero means no cap.
	MaxFiles int
}

// Walk returns the supported document files under root, sorted by walk
// order. Hidden files and directories are skipped.
func Walk(root string, opts Options) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve scan root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", root)
	}

	for _, pattern := range opts.Include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern %q", pattern)
		}
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if strings.HasPrefix(d.Name(), ".") && path != absRoot {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !reader.IsSupported(d.Name()) {
			return nil
		}
		if len(opts.Extensions) > 0 && !hasExtension(d.Name(), opts.Extensions) {
			return nil
		}

		if len(opts.Include) > 0 {
			relPath, err := filepath.Rel(absRoot, path)
			if err != nil {
				return nil
			}
			if !matchesAny(opts.Include, filepath.ToSlash(relPath)) {
				return nil
			}
		}

		files = append(files, path)
		if opts.MaxFiles > 0 && len(files) >= opts.MaxFiles {
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

func hasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

func matchesAny(patterns []string, relPath string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, relPath)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
