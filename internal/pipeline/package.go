package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"factreel/internal/fileutil"
	"factreel/internal/sidecar"
)

// defaultPrompt is the analysis instruction packaged with every transcript.
const defaultPrompt = "The following is a direct transcription of a video. Your job is to analyze every factual claim, " +
	"assumption, or statement of consequence and evaluate it with complete honesty and ferocity. Truth is the " +
	"foundation of all society, and the decay of truth is the death of civilization. You must ignore all social, " +
	"political, or emotional consequences and respond with the integrity of a scientist and philosopher who knows " +
	"that a society built on lies is destined to collapse. Analyze every statement. Mark clearly what is true, what " +
	"is questionable, what is false, and what requires more context or evidence. If the truth is painful, record it " +
	"anyway. Do not soften or sugarcoat the analysis for anyone. Your answer must reflect the importance of truth " +
	"above all else."

// PackageMetadata locates every artifact of a processed item.
type PackageMetadata struct {
	VideoFile      string `json:"video_file"`
	AudioFile      string `json:"audio_file"`
	TranscriptFile string `json:"transcript_file"`
	JSONFile       string `json:"json_file"`
	Platform       string `json:"platform"`
	CreatedUTC     string `json:"created_utc"`
	Model          string `json:"model"`
}

// Package is the structured record written as an item's terminal artifact.
type Package struct {
	Prompt     string          `json:"prompt"`
	Transcript string          `json:"transcript"`
	Metadata   PackageMetadata `json:"metadata"`
}

var knownPlatforms = map[string]struct{}{
	"youtube":   {},
	"tiktok":    {},
	"instagram": {},
}

// platformFromPath derives a source-platform tag from the path segments under
// the downloads tree, falling back to "unknown".
func platformFromPath(path string) string {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if _, ok := knownPlatforms[strings.ToLower(part)]; ok {
			return strings.ToLower(part)
		}
	}
	return "unknown"
}

// writePackage assembles the package record for primary and writes it
// atomically as the package sidecar. This is the terminal action: once the
// package exists the item is never revisited.
func writePackage(primary, baseDir, model string, now time.Time) error {
	transcriptPath := sidecar.Path(primary, sidecar.KindTranscript)
	transcript, err := os.ReadFile(transcriptPath)
	if err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}

	audioPath := sidecar.Path(primary, sidecar.KindAudio)
	packagePath := sidecar.Path(primary, sidecar.KindPackage)

	audioRel := ""
	if _, err := os.Stat(audioPath); err == nil {
		audioRel = relativeTo(baseDir, audioPath)
	}

	pkg := Package{
		Prompt:     defaultPrompt,
		Transcript: strings.TrimSpace(string(transcript)),
		Metadata: PackageMetadata{
			VideoFile:      relativeTo(baseDir, primary),
			AudioFile:      audioRel,
			TranscriptFile: relativeTo(baseDir, transcriptPath),
			JSONFile:       relativeTo(baseDir, packagePath),
			Platform:       platformFromPath(primary),
			CreatedUTC:     now.UTC().Format(time.RFC3339),
			Model:          model,
		},
	}

	data, err := json.MarshalIndent(pkg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal package: %w", err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(packagePath, data, 0o644); err != nil {
		return fmt.Errorf("write package: %w", err)
	}
	return nil
}

func relativeTo(baseDir, path string) string {
	if baseDir == "" {
		return filepath.Base(path)
	}
	rel, err := filepath.Rel(baseDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}
