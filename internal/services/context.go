package services

import "context"

type contextKey string

const (
	itemURLKey contextKey = "item_url"
	stageKey   contextKey = "stage"
)

// WithItemURL annotates context with the item's source URL.
func WithItemURL(ctx context.Context, url string) context.Context {
	if url == "" {
		return ctx
	}
	return context.WithValue(ctx, itemURLKey, url)
}

// ItemURLFromContext extracts the item source URL if present.
func ItemURLFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(itemURLKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(stageKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}
