package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"factreel/internal/sidecar"
	"factreel/internal/stability"
	"factreel/internal/testsupport"
)

type fakeExtractor struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeExtractor) ExtractAudio(_ context.Context, videoPath, audioPath string) error {
	f.mu.Lock()
	f.calls = append(f.calls, videoPath)
	f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(audioPath, []byte("RIFF"), 0o644)
}

type fakeTranscriber struct {
	mu    sync.Mutex
	calls []string
	text  string
	err   error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, audioPath, _ string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, audioPath)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	if f.text == "" {
		return "spoken words", nil
	}
	return f.text, nil
}

func instantDetector() stability.Detector {
	return stability.Detector{Sleep: func(context.Context, time.Duration) error { return nil }}
}

func newRunner(baseDir string) (*Runner, *fakeExtractor, *fakeTranscriber) {
	extractor := &fakeExtractor{}
	transcriber := &fakeTranscriber{}
	return &Runner{
		Extractor:   extractor,
		Transcriber: transcriber,
		Stability:   instantDetector(),
		BaseDir:     baseDir,
		Model:       "base",
	}, extractor, transcriber
}

func TestProcessAdvancesToPackaged(t *testing.T) {
	base := t.TempDir()
	primary := filepath.Join(base, "youtube", "clip.mp4")
	testsupport.WriteFile(t, primary, []byte("video"))

	runner, extractor, transcriber := newRunner(base)
	if err := runner.Process(context.Background(), primary); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if got := sidecar.StageOf(primary); got != sidecar.StagePackaged {
		t.Fatalf("expected packaged, got %s", got)
	}
	if len(extractor.calls) != 1 {
		t.Fatalf("expected one extraction, got %d", len(extractor.calls))
	}
	if len(transcriber.calls) != 1 {
		t.Fatalf("expected one transcription, got %d", len(transcriber.calls))
	}
	if transcriber.calls[0] != sidecar.Path(primary, sidecar.KindAudio) {
		t.Fatalf("expected transcriber fed the audio sidecar, got %q", transcriber.calls[0])
	}
}

func TestProcessRerunIsNoop(t *testing.T) {
	base := t.TempDir()
	primary := filepath.Join(base, "clip.mp4")
	testsupport.WriteFile(t, primary, []byte("video"))

	runner, extractor, transcriber := newRunner(base)
	if err := runner.Process(context.Background(), primary); err != nil {
		t.Fatalf("first Process: %v", err)
	}

	pkgPath := sidecar.Path(primary, sidecar.KindPackage)
	before, err := os.Stat(pkgPath)
	if err != nil {
		t.Fatal(err)
	}

	if err := runner.Process(context.Background(), primary); err != nil {
		t.Fatalf("second Process: %v", err)
	}
	if len(extractor.calls) != 1 || len(transcriber.calls) != 1 {
		t.Fatalf("expected no tool calls on rerun, got %d/%d", len(extractor.calls), len(transcriber.calls))
	}

	after, err := os.Stat(pkgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !after.ModTime().Equal(before.ModTime()) || after.Size() != before.Size() {
		t.Fatal("expected package untouched on rerun")
	}
}

func TestProcessResumesFromExistingSidecars(t *testing.T) {
	base := t.TempDir()
	primary := filepath.Join(base, "clip.mp4")
	testsupport.WriteFile(t, primary, []byte("video"))
	testsupport.WriteFile(t, sidecar.Path(primary, sidecar.KindAudio), []byte("RIFF"))

	runner, extractor, transcriber := newRunner(base)
	if err := runner.Process(context.Background(), primary); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(extractor.calls) != 0 {
		t.Fatalf("expected extraction skipped with audio present, got %d calls", len(extractor.calls))
	}
	if len(transcriber.calls) != 1 {
		t.Fatalf("expected transcription to run, got %d calls", len(transcriber.calls))
	}
	if got := sidecar.StageOf(primary); got != sidecar.StagePackaged {
		t.Fatalf("expected packaged, got %s", got)
	}
}

func TestProcessSkipsPartialFiles(t *testing.T) {
	base := t.TempDir()
	primary := filepath.Join(base, "clip.mp4.part")
	testsupport.WriteFile(t, primary, []byte("half a video"))

	runner, extractor, _ := newRunner(base)
	if err := runner.Process(context.Background(), primary); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(extractor.calls) != 0 {
		t.Fatal("expected partial file to be left alone")
	}
}

func TestProcessDefersUnstableFiles(t *testing.T) {
	base := t.TempDir()
	primary := filepath.Join(base, "clip.mp4")
	testsupport.WriteFile(t, primary, []byte("growing"))

	runner, extractor, _ := newRunner(base)
	runner.Stability = stability.Detector{Sleep: func(context.Context, time.Duration) error {
		f, err := os.OpenFile(primary, os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		if _, err := f.WriteString("..."); err != nil {
			return err
		}
		return f.Close()
	}}

	if err := runner.Process(context.Background(), primary); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(extractor.calls) != 0 {
		t.Fatal("expected unstable file to be deferred without tool calls")
	}
	if got := sidecar.StageOf(primary); got != sidecar.StageFetched {
		t.Fatalf("expected item to stay fetched, got %s", got)
	}
}

func TestProcessExtractionFailureLeavesStage(t *testing.T) {
	base := t.TempDir()
	primary := filepath.Join(base, "clip.mp4")
	testsupport.WriteFile(t, primary, []byte("video"))

	runner, extractor, transcriber := newRunner(base)
	extractor.err = errors.New("codec error")

	if err := runner.Process(context.Background(), primary); err == nil {
		t.Fatal("expected extraction failure to surface")
	}
	if len(transcriber.calls) != 0 {
		t.Fatal("expected no transcription after failed extraction")
	}
	if got := sidecar.StageOf(primary); got != sidecar.StageFetched {
		t.Fatalf("expected item to stay fetched, got %s", got)
	}
}

func TestProcessTranscriptionFailureKeepsAudio(t *testing.T) {
	base := t.TempDir()
	primary := filepath.Join(base, "clip.mp4")
	testsupport.WriteFile(t, primary, []byte("video"))

	runner, _, transcriber := newRunner(base)
	transcriber.err = errors.New("model crashed")

	if err := runner.Process(context.Background(), primary); err == nil {
		t.Fatal("expected transcription failure to surface")
	}
	// The audio sidecar survives, so a retry resumes from transcription.
	if got := sidecar.StageOf(primary); got != sidecar.StageAudioExtracted {
		t.Fatalf("expected audio_extracted, got %s", got)
	}
}

func TestRunProcessesScanResults(t *testing.T) {
	base := t.TempDir()
	stable := filepath.Join(base, "youtube", "good.mp4")
	partial := filepath.Join(base, "youtube", "incoming.mp4.part")
	testsupport.WriteFile(t, stable, []byte("video"))
	testsupport.WriteFile(t, partial, []byte("incomplete"))

	runner, _, _ := newRunner(base)
	results, err := runner.Run(context.Background(), base)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one scanned item, got %d", len(results))
	}
	if results[0].Err != nil {
		t.Fatalf("unexpected item error: %v", results[0].Err)
	}

	if got := sidecar.StageOf(stable); got != sidecar.StagePackaged {
		t.Fatalf("expected stable item packaged, got %s", got)
	}
	if _, err := os.Stat(sidecar.Path(partial, sidecar.KindAudio)); !os.IsNotExist(err) {
		t.Fatal("expected no sidecars for the partial file")
	}
}

func TestRunIsolatesItemFailures(t *testing.T) {
	base := t.TempDir()
	good := filepath.Join(base, "a good.mp4")
	bad := filepath.Join(base, "z bad.mp4")
	testsupport.WriteFile(t, good, []byte("video"))
	testsupport.WriteFile(t, bad, []byte("video"))

	runner, _, transcriber := newRunner(base)
	transcriber.err = errors.New("model crashed")
	// Pre-seed the good item's transcript so only the bad one needs the tool.
	testsupport.WriteFile(t, sidecar.Path(good, sidecar.KindAudio), []byte("RIFF"))
	testsupport.WriteFile(t, sidecar.Path(good, sidecar.KindTranscript), []byte("already transcribed"))

	results, err := runner.Run(context.Background(), base)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected two results, got %d", len(results))
	}
	if results[0].Err != nil {
		t.Fatalf("expected good item to succeed: %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Fatal("expected bad item to fail")
	}
	if got := sidecar.StageOf(good); got != sidecar.StagePackaged {
		t.Fatalf("expected good item packaged despite sibling failure, got %s", got)
	}
}

func TestProcessPackageContents(t *testing.T) {
	base := t.TempDir()
	primary := filepath.Join(base, "tiktok", "Claim Video.mp4")
	testsupport.WriteFile(t, primary, []byte("video"))

	created := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	runner, _, transcriber := newRunner(base)
	transcriber.text = "  the earth is round  "
	runner.Now = func() time.Time { return created }

	if err := runner.Process(context.Background(), primary); err != nil {
		t.Fatalf("Process: %v", err)
	}

	data, err := os.ReadFile(sidecar.Path(primary, sidecar.KindPackage))
	if err != nil {
		t.Fatal(err)
	}
	var pkg Package
	if err := json.Unmarshal(data, &pkg); err != nil {
		t.Fatalf("unmarshal package: %v", err)
	}

	if pkg.Prompt == "" {
		t.Fatal("expected prompt to be populated")
	}
	if pkg.Transcript != "the earth is round" {
		t.Fatalf("expected trimmed transcript, got %q", pkg.Transcript)
	}
	meta := pkg.Metadata
	if meta.VideoFile != "tiktok/Claim Video.mp4" {
		t.Fatalf("unexpected video path %q", meta.VideoFile)
	}
	if meta.AudioFile != "tiktok/Claim Video.wav" {
		t.Fatalf("unexpected audio path %q", meta.AudioFile)
	}
	if meta.TranscriptFile != "tiktok/Claim Video.txt" {
		t.Fatalf("unexpected transcript path %q", meta.TranscriptFile)
	}
	if meta.JSONFile != "tiktok/Claim Video.json" {
		t.Fatalf("unexpected json path %q", meta.JSONFile)
	}
	if meta.Platform != "tiktok" {
		t.Fatalf("unexpected platform %q", meta.Platform)
	}
	if meta.Model != "whisper-base" {
		t.Fatalf("unexpected model %q", meta.Model)
	}
	if meta.CreatedUTC != "2026-08-29T12:00:00Z" {
		t.Fatalf("unexpected created_utc %q", meta.CreatedUTC)
	}
}
