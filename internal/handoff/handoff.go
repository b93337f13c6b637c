// Package handoff manages the append-only list that passes directory paths
// from one independently scheduled process stage to the next.
//
// The producer appends one path per line and never removes entries; pruning is
// owned by the downstream consumer. Appends are serialized through a file lock
// because independent process instances may write concurrently, and duplicates
// are suppressed best-effort with an in-memory set covering the current run.
package handoff

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
)

// List appends directory paths to a newline-delimited hand-off file.
type List struct {
	path string
	lock *flock.Flock

	mu   sync.Mutex
	seen map[string]struct{}
}

// New creates a hand-off list writer for the given file path.
func New(path string) (*List, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("handoff path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure handoff directory: %w", err)
	}
	return &List{
		path: path,
		lock: flock.New(path + ".lock"),
		seen: make(map[string]struct{}),
	}, nil
}

// Path returns the list file location.
func (l *List) Path() string {
	return l.path
}

// Append adds dir to the list unless it was already appended during this run.
// The write is serialized under a file lock so concurrent appenders never
// interleave partial lines.
func (l *List) Append(dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return errors.New("directory is required")
	}

	l.mu.Lock()
	if _, ok := l.seen[dir]; ok {
		l.mu.Unlock()
		return nil
	}
	l.seen[dir] = struct{}{}
	l.mu.Unlock()

	if err := l.lock.Lock(); err != nil {
		return fmt.Errorf("acquire handoff lock: %w", err)
	}
	defer func() {
		_ = l.lock.Unlock()
	}()

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open handoff list: %w", err)
	}
	if _, err := file.WriteString(dir + "\n"); err != nil {
		_ = file.Close()
		return fmt.Errorf("append handoff entry: %w", err)
	}
	return file.Close()
}

// Load returns every non-blank line from the list file. A missing file yields
// an empty slice, not an error.
func Load(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open handoff list: %w", err)
	}
	defer file.Close()

	var dirs []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			dirs = append(dirs, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read handoff list: %w", err)
	}
	return dirs, nil
}
