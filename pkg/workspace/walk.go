package workspace

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// DefaultIgnoreDirs are directories never scanned for modules
var DefaultIgnoreDirs = []string{
	"node_modules", "dist", "build", "out", "target",
	".git", ".gradle", ".idea", ".vscode",
}

// WalkOptions configures directory traversal behavior
type WalkOptions struct {
	IgnoreDirs    []string // Directories to skip (default: DefaultIgnoreDirs)
	ExtraIgnore   []string // Added to IgnoreDirs, e.g. from heron.yml
	IncludeHidden bool     // Include hidden directories (default: false)
}

func (o WalkOptions) ignored() map[string]bool {
	dirs := o.IgnoreDirs
	if len(dirs) == 0 {
		dirs = DefaultIgnoreDirs
	}
	set := make(map[string]bool, len(dirs)+len(o.ExtraIgnore))
	for _, d := range dirs {
		set[d] = true
	}
	for _, d := range o.ExtraIgnore {
		set[d] = true
	}
	return set
}

// Skips reports whether a directory with this name is left out of scans
func (o WalkOptions) Skips(name string) bool {
	return o.skips(name, o.ignored())
}

func (o WalkOptions) skips(name string, ignore map[string]bool) bool {
	if !o.IncludeHidden && strings.HasPrefix(name, ".") {
		return true
	}
	return ignore[name]
}

// WalkDirs calls visitor for every directory below rootPath, in lexical
// order, skipping ignored and hidden directories. The root itself is not
// visited. Return filepath.SkipDir from visitor to prune a directory.
func WalkDirs(rootPath string, opts WalkOptions, visitor func(path string) error) error {
	ignore := opts.ignored()

	return filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || path == rootPath {
			return nil
		}

		if opts.skips(d.Name(), ignore) {
			return filepath.SkipDir
		}

		return visitor(path)
	})
}
