// Package sidecar derives pipeline progress from artifacts on disk.
//
// Each primary media file accumulates sibling artifacts sharing its stem: an
// audio extraction (.wav), a transcript (.txt), and a package (.json). Stage
// state is never stored anywhere else; a process restart recomputes exactly
// the same stage from the filesystem.
package sidecar

import (
	"os"
	"path/filepath"
	"strings"
)

// Kind identifies one sidecar artifact class.
type Kind string

const (
	KindAudio      Kind = "audio"
	KindTranscript Kind = "transcript"
	KindPackage    Kind = "package"
)

var kindExtensions = map[Kind]string{
	KindAudio:      ".wav",
	KindTranscript: ".txt",
	KindPackage:    ".json",
}

// Stage is the derived position of an item in the pipeline. Ordering is
// meaningful: a stage is only reachable once every earlier artifact exists.
type Stage int

const (
	// StageFetched means only the primary file exists.
	StageFetched Stage = iota
	StageAudioExtracted
	StageTranscribed
	// StagePackaged is terminal; packaged items are never revisited.
	StagePackaged
)

func (s Stage) String() string {
	switch s {
	case StageFetched:
		return "fetched"
	case StageAudioExtracted:
		return "audio_extracted"
	case StageTranscribed:
		return "transcribed"
	case StagePackaged:
		return "packaged"
	default:
		return "unknown"
	}
}

// Temp suffixes used by downloaders for in-progress writes.
var tempSuffixes = []string{".part", ".ytdl", ".tmp", ".download"}

// IsPartial reports whether path carries a well-known in-progress suffix.
// Partial files are skipped for the current scan, not treated as failures.
func IsPartial(path string) bool {
	lower := strings.ToLower(path)
	for _, suffix := range tempSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// Path returns the sidecar location of the given kind for a primary file.
// Sidecars share the primary's directory and stem.
func Path(primary string, kind Kind) string {
	ext, ok := kindExtensions[kind]
	if !ok {
		return ""
	}
	stem := strings.TrimSuffix(primary, filepath.Ext(primary))
	return stem + ext
}

// StageOf computes the pipeline stage of a primary file purely from sidecar
// presence. A missing intermediate artifact demotes the item to the first
// missing stage, so externally deleted artifacts are redone rather than
// skipped.
func StageOf(primary string) Stage {
	if !exists(Path(primary, KindAudio)) {
		return StageFetched
	}
	if !exists(Path(primary, KindTranscript)) {
		return StageAudioExtracted
	}
	if !exists(Path(primary, KindPackage)) {
		return StageTranscribed
	}
	return StagePackaged
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
