// Package dedupe finds byte-identical primary files in the downloads tree.
//
// Only files that have not grown sidecar artifacts are candidates for removal;
// anything past the fetched stage is left alone so derived artifacts never
// point at a deleted primary.
package dedupe

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"factreel/internal/logging"
	"factreel/internal/sidecar"
)

// Duplicate groups one kept file with its removable copies.
type Duplicate struct {
	Keep   string
	Remove []string
}

// Sweeper scans for duplicate primary media files.
type Sweeper struct {
	Logger     *slog.Logger
	Extensions []string
}

// Scan hashes every primary file under root and groups identical contents.
// Within a group the file with the longest name is kept (ties broken
// alphabetically), matching the assumption that longer names carry more title
// information.
func (s Sweeper) Scan(root string) ([]Duplicate, error) {
	logger := s.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	extensions := s.Extensions
	if len(extensions) == 0 {
		extensions = []string{".mp4"}
	}
	wanted := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		wanted[strings.ToLower(ext)] = struct{}{}
	}

	hashes := make(map[string][]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || sidecar.IsPartial(path) {
			return nil
		}
		if _, ok := wanted[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}
		if sidecar.StageOf(path) != sidecar.StageFetched {
			return nil
		}
		sum, hashErr := hashFile(path)
		if hashErr != nil {
			logger.Warn("could not hash file",
				logging.String(logging.FieldPath, path),
				logging.Error(hashErr),
			)
			return nil
		}
		hashes[sum] = append(hashes[sum], path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var duplicates []Duplicate
	for _, paths := range hashes {
		if len(paths) < 2 {
			continue
		}
		sort.Slice(paths, func(i, j int) bool {
			if len(paths[i]) != len(paths[j]) {
				return len(paths[i]) > len(paths[j])
			}
			return paths[i] < paths[j]
		})
		duplicates = append(duplicates, Duplicate{Keep: paths[0], Remove: paths[1:]})
	}
	sort.Slice(duplicates, func(i, j int) bool { return duplicates[i].Keep < duplicates[j].Keep })
	return duplicates, nil
}

// Remove deletes the removable copies in each group, returning the number of
// files removed. Individual removal failures are logged and skipped.
func (s Sweeper) Remove(duplicates []Duplicate) int {
	logger := s.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	removed := 0
	for _, dup := range duplicates {
		for _, path := range dup.Remove {
			if err := os.Remove(path); err != nil {
				logger.Warn("could not remove duplicate",
					logging.String(logging.FieldPath, path),
					logging.Error(err),
				)
				continue
			}
			logger.Info("removed duplicate",
				logging.String(logging.FieldPath, path),
				logging.String("kept", dup.Keep),
			)
			removed++
		}
	}
	return removed
}

func hashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
