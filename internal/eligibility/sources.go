package eligibility

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

func isStylesheet(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sass", ".scss":
		return true
	default:
		return false
	}
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules" || name == "dist" || name == "build" || name == "vendor"
}

// HasSources walks root and reports whether it holds at least one .sass or
// .scss file. Hidden, dependency and build output directories are skipped.
// Unreadable subdirectories are ignored.
func HasSources(ctx context.Context, root string) (bool, error) {
	if root == "" {
		root = "."
	}
	info, err := os.Stat(root)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to stat project root"), "root", root)
	}
	if !info.IsDir() {
		return isStylesheet(root), nil
	}

	found := false
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if isStylesheet(path) {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}
	if err != nil {
		return false, zerr.Wrap(err, "failed to walk project")
	}
	return found, nil
}
