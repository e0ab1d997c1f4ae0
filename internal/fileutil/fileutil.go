// Package fileutil maps paths to file types and discovers processable
// files on disk.
package fileutil

import (
	"os"
	"path/filepath"
	"strings"

	"propsort/errors"
	"propsort/internal/model"
)

var extTypes = map[string]model.FileType{
	".ts":    model.FileTypeTypeScript,
	".tsx":   model.FileTypeTypeScript,
	".js":    model.FileTypeJavaScript,
	".jsx":   model.FileTypeJavaScript,
	".css":   model.FileTypeCSS,
	".scss":  model.FileTypeSCSS,
	".sass":  model.FileTypeSASS,
	".less":  model.FileTypeLESS,
	".go":    model.FileTypeGo,
	".json":  model.FileTypeJSON,
	".jsonc": model.FileTypeJSONC,
	".yaml":  model.FileTypeYAML,
	".yml":   model.FileTypeYAML,
}

// Directories never worth descending into.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
}

// SkipDirName reports whether a directory with this base name should be
// left out of discovery and watching (hidden dirs, node_modules, vendor).
func SkipDirName(base string) bool {
	return strings.HasPrefix(base, ".") || skipDirs[base]
}

// TypeOf returns the file type for path based on its extension.
func TypeOf(path string) (model.FileType, bool) {
	ft, ok := extTypes[strings.ToLower(filepath.Ext(path))]
	return ft, ok
}

// Supported reports whether path has an extension this tool can process.
func Supported(path string) bool {
	_, ok := TypeOf(path)
	return ok
}

// FindFiles finds all processable files under root. Hidden directories,
// node_modules, and vendor are skipped; with recursive false only root
// itself is scanned.
func FindFiles(root string, recursive bool) ([]string, error) {
	var files []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path != root && SkipDirName(filepath.Base(path)) {
				return filepath.SkipDir
			}
			if !recursive && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if Supported(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", root)
	}
	return files, nil
}

// ExpandPaths resolves command-line path arguments into a deduplicated
// list of processable files. Directories are searched with FindFiles; a
// file named explicitly must have a supported extension.
func ExpandPaths(paths []string, recursive bool) ([]string, error) {
	var files []string
	seen := map[string]bool{}

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, errors.Wrapf(err, "stat %s", p)
		}
		if info.IsDir() {
			found, err := FindFiles(p, recursive)
			if err != nil {
				return nil, err
			}
			for _, f := range found {
				add(f)
			}
			continue
		}
		if !Supported(p) {
			return nil, errors.Newf("%v: %s", errors.ErrUnsupportedFileType, p)
		}
		add(p)
	}
	return files, nil
}
