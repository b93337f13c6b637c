package handoff

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestAppendAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factcheck_dirs.txt")
	list, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := list.Append("/data/downloads/clip-one"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := list.Append("/data/downloads/clip-two"); err != nil {
		t.Fatalf("Append: %v", err)
	}

	dirs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"/data/downloads/clip-one", "/data/downloads/clip-two"}
	if len(dirs) != len(want) {
		t.Fatalf("expected %d entries, got %d: %v", len(want), len(dirs), dirs)
	}
	for i := range want {
		if dirs[i] != want[i] {
			t.Fatalf("entry %d: got %q, want %q", i, dirs[i], want[i])
		}
	}
}

func TestAppendDeduplicatesWithinRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factcheck_dirs.txt")
	list, err := New(path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := list.Append("/data/downloads/same-dir"); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	dirs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(dirs) != 1 {
		t.Fatalf("expected a single deduplicated entry, got %v", dirs)
	}
}

func TestAppendAcrossRunsMayRepeat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factcheck_dirs.txt")

	for run := 0; run < 2; run++ {
		list, err := New(path)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if err := list.Append("/data/downloads/revisited"); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	// Dedupe scope is one writer instance; the consumer owns pruning.
	dirs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(dirs) != 2 {
		t.Fatalf("expected two entries across separate runs, got %v", dirs)
	}
}

func TestAppendRejectsBlankDir(t *testing.T) {
	list, err := New(filepath.Join(t.TempDir(), "factcheck_dirs.txt"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := list.Append("   "); err == nil {
		t.Fatal("expected error for blank directory")
	}
}

func TestNewRequiresPath(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestLoadMissingFile(t *testing.T) {
	dirs, err := Load(filepath.Join(t.TempDir(), "absent.txt"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(dirs) != 0 {
		t.Fatalf("expected empty list for missing file, got %v", dirs)
	}
}

func TestLoadSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factcheck_dirs.txt")
	contents := "/a\n\n  \n/b\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	dirs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(dirs) != 2 || dirs[0] != "/a" || dirs[1] != "/b" {
		t.Fatalf("expected [/a /b], got %v", dirs)
	}
}

func TestConcurrentAppendsProduceWholeLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factcheck_dirs.txt")

	const writers = 6
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Separate List instances model independent process runs.
			list, err := New(path)
			if err != nil {
				t.Errorf("New: %v", err)
				return
			}
			if err := list.Append(filepath.Join("/data", "downloads", strings.Repeat("x", 40+i))); err != nil {
				t.Errorf("Append: %v", err)
			}
		}(i)
	}
	wg.Wait()

	dirs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(dirs) != writers {
		t.Fatalf("expected %d whole lines, got %d: %v", writers, len(dirs), dirs)
	}
	seen := make(map[string]bool)
	for _, dir := range dirs {
		if seen[dir] {
			t.Fatalf("unexpected duplicate line %q", dir)
		}
		seen[dir] = true
	}
}
