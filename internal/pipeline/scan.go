package pipeline

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"factreel/internal/sidecar"
)

// Scan walks root and returns the primary media files to process, in path
// order. Files carrying an in-progress temp suffix are left out; they belong
// to a writer that has not finished yet.
func Scan(root string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = []string{".mp4"}
	}
	wanted := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		wanted[strings.ToLower(ext)] = struct{}{}
	}

	var items []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if sidecar.IsPartial(path) {
			return nil
		}
		if _, ok := wanted[strings.ToLower(filepath.Ext(path))]; ok {
			items = append(items, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	sort.Strings(items)
	return items, nil
}
