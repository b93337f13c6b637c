package services

import (
	"context"
	"testing"
)

func TestItemURLRoundTrip(t *testing.T) {
	ctx := WithItemURL(context.Background(), "https://example.com/v")
	url, ok := ItemURLFromContext(ctx)
	if !ok || url != "https://example.com/v" {
		t.Fatalf("got %q, %v", url, ok)
	}
}

func TestItemURLAbsent(t *testing.T) {
	if _, ok := ItemURLFromContext(context.Background()); ok {
		t.Fatal("expected no url on fresh context")
	}
	ctx := WithItemURL(context.Background(), "")
	if _, ok := ItemURLFromContext(ctx); ok {
		t.Fatal("expected empty url not to be stored")
	}
}

func TestStageRoundTrip(t *testing.T) {
	ctx := WithStage(context.Background(), "transcribe")
	stage, ok := StageFromContext(ctx)
	if !ok || stage != "transcribe" {
		t.Fatalf("got %q, %v", stage, ok)
	}
}

func TestStageAbsent(t *testing.T) {
	if _, ok := StageFromContext(context.Background()); ok {
		t.Fatal("expected no stage on fresh context")
	}
}
