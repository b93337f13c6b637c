package sidecar

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPathSharesStem(t *testing.T) {
	primary := filepath.Join("downloads", "youtube", "My Clip.mp4")

	cases := map[Kind]string{
		KindAudio:      filepath.Join("downloads", "youtube", "My Clip.wav"),
		KindTranscript: filepath.Join("downloads", "youtube", "My Clip.txt"),
		KindPackage:    filepath.Join("downloads", "youtube", "My Clip.json"),
	}
	for kind, want := range cases {
		if got := Path(primary, kind); got != want {
			t.Fatalf("Path(%s): got %q, want %q", kind, got, want)
		}
	}
}

func TestPathUnknownKind(t *testing.T) {
	if got := Path("clip.mp4", Kind("thumbnail")); got != "" {
		t.Fatalf("expected empty path for unknown kind, got %q", got)
	}
}

func TestIsPartial(t *testing.T) {
	partials := []string{
		"clip.mp4.part",
		"clip.mp4.PART",
		"clip.mp4.ytdl",
		"clip.mp4.tmp",
		"clip.mp4.download",
	}
	for _, path := range partials {
		if !IsPartial(path) {
			t.Fatalf("expected %q to be partial", path)
		}
	}

	complete := []string{
		"clip.mp4",
		"clip.partly.mp4",
		"departure.mkv",
	}
	for _, path := range complete {
		if IsPartial(path) {
			t.Fatalf("expected %q not to be partial", path)
		}
	}
}

func TestStageOfProgression(t *testing.T) {
	dir := t.TempDir()
	primary := filepath.Join(dir, "clip.mp4")
	write := func(path string) {
		t.Helper()
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write(primary)

	if got := StageOf(primary); got != StageFetched {
		t.Fatalf("expected fetched, got %s", got)
	}

	write(Path(primary, KindAudio))
	if got := StageOf(primary); got != StageAudioExtracted {
		t.Fatalf("expected audio_extracted, got %s", got)
	}

	write(Path(primary, KindTranscript))
	if got := StageOf(primary); got != StageTranscribed {
		t.Fatalf("expected transcribed, got %s", got)
	}

	write(Path(primary, KindPackage))
	if got := StageOf(primary); got != StagePackaged {
		t.Fatalf("expected packaged, got %s", got)
	}
}

func TestStageOfMissingIntermediateDemotes(t *testing.T) {
	dir := t.TempDir()
	primary := filepath.Join(dir, "clip.mp4")
	for _, path := range []string{primary, Path(primary, KindTranscript), Path(primary, KindPackage)} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	// Transcript and package exist but the audio sidecar was removed: the
	// item reverts to the first missing artifact.
	if got := StageOf(primary); got != StageFetched {
		t.Fatalf("expected fetched with missing audio sidecar, got %s", got)
	}
}

func TestStageOfIgnoresDirectorySidecars(t *testing.T) {
	dir := t.TempDir()
	primary := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(primary, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(Path(primary, KindAudio), 0o755); err != nil {
		t.Fatal(err)
	}

	if got := StageOf(primary); got != StageFetched {
		t.Fatalf("expected directory not to count as audio sidecar, got %s", got)
	}
}

func TestStageString(t *testing.T) {
	cases := map[Stage]string{
		StageFetched:        "fetched",
		StageAudioExtracted: "audio_extracted",
		StageTranscribed:    "transcribed",
		StagePackaged:       "packaged",
		Stage(99):           "unknown",
	}
	for stage, want := range cases {
		if got := stage.String(); got != want {
			t.Fatalf("Stage(%d).String(): got %q, want %q", stage, got, want)
		}
	}
}
