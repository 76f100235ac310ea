// Package fsop provides file system operations.
package fsop

import (
	"io/fs"
	"path/filepath"
)

// SkipFunc 返回 true 时跳过该目录及其子树
type SkipFunc func(path string) bool

// walkSubdirectories 是内部通用实现，skip 可为 nil
func walkSubdirectories(root string, skip SkipFunc) ([]string, error) {
	var subdirs []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != root {
			if skip != nil && skip(path) {
				return filepath.SkipDir
			}
			subdirs = append(subdirs, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return subdirs, nil
}

// ListAllSubdirectories lists all subdirectories in the given path, recursively.
// It does not include the root path itself in the returned list.
func ListAllSubdirectories(root string) ([]string, error) {
	return walkSubdirectories(root, nil)
}

// ListSubdirectories lists all subdirectories, skipping those for which skip returns true.
func ListSubdirectories(root string, skip SkipFunc) ([]string, error) {
	return walkSubdirectories(root, skip)
}
