package deps

import (
	"errors"
	"strings"
	"testing"

	"factreel/internal/services"
	"factreel/internal/testsupport"
)

func TestCheckBinariesFindsStubbed(t *testing.T) {
	testsupport.NewConfig(t, testsupport.WithStubbedBinaries("ffmpeg", "whisper"))

	statuses := CheckBinaries(PipelineRequirements())
	if len(statuses) != 2 {
		t.Fatalf("expected two statuses, got %d", len(statuses))
	}
	for _, status := range statuses {
		if !status.Available {
			t.Fatalf("expected %s available, detail: %s", status.Command, status.Detail)
		}
	}
}

func TestCheckBinariesReportsMissing(t *testing.T) {
	statuses := CheckBinaries([]Requirement{
		{Name: "Nope", Command: "definitely-not-a-binary-zz"},
	})
	if len(statuses) != 1 {
		t.Fatalf("expected one status, got %d", len(statuses))
	}
	if statuses[0].Available {
		t.Fatal("expected binary to be missing")
	}
	if !strings.Contains(statuses[0].Detail, "not found") {
		t.Fatalf("unexpected detail %q", statuses[0].Detail)
	}
}

func TestCheckBinariesEmptyCommand(t *testing.T) {
	statuses := CheckBinaries([]Requirement{{Name: "Blank", Command: "   "}})
	if statuses[0].Available {
		t.Fatal("expected blank command to be unavailable")
	}
}

func TestPreflightPassesWithStubs(t *testing.T) {
	testsupport.NewConfig(t, testsupport.WithStubbedBinaries())

	if err := Preflight(PipelineRequirements()); err != nil {
		t.Fatalf("Preflight: %v", err)
	}
	if err := Preflight(FetchRequirements()); err != nil {
		t.Fatalf("Preflight fetch: %v", err)
	}
}

func TestPreflightMissingIsConfigurationError(t *testing.T) {
	err := Preflight([]Requirement{{Name: "Nope", Command: "definitely-not-a-binary-zz"}})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !services.IsPrecondition(err) {
		t.Fatal("expected missing binaries to abort before any item work")
	}
}

func TestPreflightIgnoresOptional(t *testing.T) {
	err := Preflight([]Requirement{
		{Name: "Extra", Command: "definitely-not-a-binary-zz", Optional: true},
	})
	if err != nil {
		t.Fatalf("expected optional binaries to be skipped, got %v", err)
	}
}
