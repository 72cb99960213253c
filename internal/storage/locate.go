package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Locate walks root top-down and returns the absolute path of every regular
// file whose extension equals ext. Each directory's own files come first in
// name order, then its subdirectories are visited in name order. Names
// starting with a dot never match. Contents are not opened.
func Locate(root, ext string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", absRoot)
	}

	var files []string
	if err := locateDir(absRoot, ext, &files); err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", absRoot, err)
	}
	return files, nil
}

func locateDir(dir, ext string, files *[]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var subdirs []string
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if e.IsDir() {
			subdirs = append(subdirs, path)
			continue
		}
		if strings.HasPrefix(e.Name(), ".") || filepath.Ext(e.Name()) != ext {
			continue
		}
		if !e.Type().IsRegular() {
			// Follow symlinks to files
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
		}
		*files = append(*files, path)
	}

	for _, sub := range subdirs {
		if err := locateDir(sub, ext, files); err != nil {
			return err
		}
	}
	return nil
}
