package batch

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Extensions recognised as model containers, longest first.
var modelExts = []string{".pers.zst", ".pers"}

// IsModelFile reports whether name looks like a model container.
func IsModelFile(name string) bool {
	return modelExt(name) != ""
}

func modelExt(name string) string {
	lower := strings.ToLower(name)
	for _, ext := range modelExts {
		if strings.HasSuffix(lower, ext) && len(lower) > len(ext) {
			return name[len(name)-len(ext):]
		}
	}
	return ""
}

// Scan walks dir and returns every model container below it, sorted.
func Scan(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsModelFile(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// stem returns path relative to root with the container extension removed,
// using forward slashes.
func stem(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(path)
	}
	rel = rel[:len(rel)-len(modelExt(rel))]
	return filepath.ToSlash(rel)
}
