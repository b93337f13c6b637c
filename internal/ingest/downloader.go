package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"factreel/internal/fileutil"
	"factreel/internal/handoff"
	"factreel/internal/ledger"
	"factreel/internal/logging"
	"factreel/internal/retry"
	"factreel/internal/services"
	"factreel/internal/services/ytdlp"
)

// Downloader performs ledger-gated, retried downloads of source URLs.
type Downloader struct {
	Logger  *slog.Logger
	Ledger  *ledger.Store
	Fetcher ytdlp.Client
	Retry   retry.Executor
	Handoff *handoff.List

	// DownloadDir is the root under which per-subject item directories live.
	DownloadDir string
	// URLLog, when set, receives every URL handed to Download (audit trail).
	URLLog string
}

// Download fetches url into a directory derived from title, unless the ledger
// already records it. The fetch lands in a fresh staging directory so retried
// attempts never collide with a partial earlier write; only after the artifact
// is moved into place is the ledger row inserted. When routed is true the item
// directory is appended to the hand-off list.
//
// Returns the final primary file path, or "" when the URL was already on
// record.
func (d *Downloader) Download(ctx context.Context, url, title string, routed bool) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", services.Wrap(services.ErrValidation, "ingest", "download", "url is required", nil)
	}
	logger := d.logger().With(logging.String(logging.FieldURL, url))
	itemCtx := services.WithItemURL(ctx, url)

	d.auditURL(url)

	if d.Ledger != nil {
		exists, err := d.Ledger.Exists(itemCtx, url)
		if err != nil {
			return "", fmt.Errorf("ledger gate: %w", err)
		}
		if exists {
			logger.Info("url already downloaded, skipping")
			return "", nil
		}
	}

	destDir := filepath.Join(d.DownloadDir, fileutil.SafeName(title, 100))
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create item directory: %w", err)
	}

	stagingDir := filepath.Join(d.DownloadDir, ".staging", uuid.NewString())
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return "", fmt.Errorf("create staging directory: %w", err)
	}
	defer func() {
		_ = os.RemoveAll(stagingDir)
	}()

	exec := d.Retry
	if exec.Logger == nil {
		exec.Logger = logger
	}
	result, err := retry.Do(itemCtx, exec, "download "+url, func(ctx context.Context) (ytdlp.Result, error) {
		return d.Fetcher.Fetch(ctx, url, stagingDir)
	})
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "ingest", "download", "", err)
	}

	finalTitle := strings.TrimSpace(result.Title)
	if finalTitle == "" {
		finalTitle = title
	}
	finalPath := filepath.Join(destDir, fileutil.SafeName(finalTitle, 150)+filepath.Ext(result.Path))
	if err := moveFile(result.Path, finalPath); err != nil {
		return "", fmt.Errorf("move download into place: %w", err)
	}

	if d.Ledger != nil {
		// The artifact is already safely on disk; losing the ledger row only
		// risks a redundant future re-fetch, so insert errors are non-fatal.
		inserted, err := d.Ledger.RecordIfNew(itemCtx, url, fileutil.SafeName(finalTitle, 150))
		if err != nil {
			logger.Error("failed to record download in ledger", logging.Error(err))
		} else if !inserted {
			logger.Debug("download already on record")
		}
	}

	logger.Info("download complete",
		logging.String(logging.FieldPath, finalPath),
		logging.String("title", finalTitle),
	)

	if routed && d.Handoff != nil {
		if err := d.Handoff.Append(destDir); err != nil {
			logger.Error("failed to append hand-off entry", logging.Error(err))
		} else {
			logger.Info("marked for transcription hand-off", logging.String("dir", destDir))
		}
	}

	return finalPath, nil
}

// IngestMessage applies rules to a parsed message and downloads every URL its
// body contains. Individual URL failures are logged and counted, never fatal.
func (d *Downloader) IngestMessage(ctx context.Context, msg Message, rules Rules) (int, error) {
	logger := d.logger()

	if ok, reason := rules.Allows(msg); !ok {
		logger.Info("skipping message", logging.String("reason", reason), logging.String("subject", msg.Subject))
		return 0, nil
	}

	urls := ExtractURLs(msg.Body)
	if len(urls) == 0 {
		logger.Info("no urls found in message", logging.String("subject", msg.Subject))
		return 0, nil
	}

	routed := rules.Routed(msg.Subject)
	succeeded := 0
	for _, url := range urls {
		if _, err := d.Download(ctx, url, msg.Subject, routed); err != nil {
			logger.Error("download failed",
				logging.String(logging.FieldURL, url),
				logging.Error(err),
			)
			continue
		}
		succeeded++
	}
	return succeeded, nil
}

func (d *Downloader) auditURL(url string) {
	if d.URLLog == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(d.URLLog), 0o755); err != nil {
		d.logger().Warn("could not create url log directory", logging.Error(err))
		return
	}
	file, err := os.OpenFile(d.URLLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		d.logger().Warn("could not open url log", logging.Error(err))
		return
	}
	defer file.Close()
	_, _ = file.WriteString(url + "\n")
}

func (d *Downloader) logger() *slog.Logger {
	if d.Logger == nil {
		return logging.NewNop()
	}
	return d.Logger
}

func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	// Rename fails across filesystems; the copy path is always safe.
	if err := fileutil.CopyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}
