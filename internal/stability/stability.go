// Package stability decides whether a file has finished being written.
//
// There is no lock coordination between the external downloader and the
// pipeline, so the only available signal is time-based sampling: a file whose
// size and mtime are unchanged across a wait window is assumed complete.
package stability

import (
	"context"
	"log/slog"
	"os"
	"time"

	"factreel/internal/logging"
)

// DefaultWindow is the sampling window used when none is configured.
const DefaultWindow = 10 * time.Second

// Detector samples a file twice across a wait window.
type Detector struct {
	Logger *slog.Logger
	Window time.Duration

	// Sleep is a seam for tests; nil uses a context-aware timer.
	Sleep func(context.Context, time.Duration) error
}

// IsStable reports whether path kept the same size and mtime across the
// detector's window. It fails closed: a file that cannot be stat'd (racing an
// external deletion) is reported as not stable with a warning rather than an
// error, so callers simply defer the item to a later scan.
func (d Detector) IsStable(ctx context.Context, path string) bool {
	logger := d.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	window := d.Window
	if window <= 0 {
		window = DefaultWindow
	}
	sleep := d.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	first, err := os.Stat(path)
	if err != nil {
		logger.Warn("could not stat file for stability check",
			logging.String(logging.FieldPath, path),
			logging.Error(err),
		)
		return false
	}

	if err := sleep(ctx, window); err != nil {
		return false
	}

	second, err := os.Stat(path)
	if err != nil {
		logger.Warn("file vanished during stability window",
			logging.String(logging.FieldPath, path),
			logging.Error(err),
		)
		return false
	}

	return second.Size() == first.Size() && second.ModTime().Equal(first.ModTime())
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
