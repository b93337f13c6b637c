package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"factreel/internal/fileutil"
	"factreel/internal/logging"
	"factreel/internal/services"
	"factreel/internal/services/ffmpeg"
	"factreel/internal/services/whisper"
	"factreel/internal/sidecar"
	"factreel/internal/stability"
	"factreel/internal/workerpool"
)

// Runner advances discovered items through the derivation stages.
type Runner struct {
	Logger      *slog.Logger
	Extractor   ffmpeg.Client
	Transcriber whisper.Client
	Stability   stability.Detector

	// BaseDir anchors the relative artifact paths written into packages.
	BaseDir string
	// Model is the transcriber model identifier recorded in packages.
	Model string
	// Extensions are the primary media extensions discovered by Run.
	Extensions []string
	// MaxParallel bounds concurrent items in flight during Run.
	MaxParallel int

	// Now is a seam for tests; nil uses time.Now.
	Now func() time.Time
}

// Run scans root and processes every discovered item through the worker pool.
// Individual item failures are reported in the results, never as an error; the
// error covers scan failures only.
func (r *Runner) Run(ctx context.Context, root string) ([]workerpool.Result, error) {
	logger := r.logger()

	items, err := Scan(root, r.Extensions)
	if err != nil {
		return nil, err
	}
	logger.Info("scan complete",
		logging.String(logging.FieldPath, root),
		logging.Int("items", len(items)),
		logging.Int("max_parallel", r.MaxParallel),
	)
	if len(items) == 0 {
		return nil, nil
	}

	return workerpool.RunAll(ctx, logger, items, r.Process, r.MaxParallel), nil
}

// Process advances one primary file as far as it can go in a single pass.
// Every transition is gated purely on sidecar presence, so a crashed or
// deferred item resumes from exactly where its artifacts say it stopped.
func (r *Runner) Process(ctx context.Context, primary string) error {
	logger := r.logger().With(logging.String(logging.FieldPath, primary))

	if sidecar.IsPartial(primary) {
		logger.Debug("skipping in-progress download")
		return nil
	}
	if sidecar.StageOf(primary) == sidecar.StagePackaged {
		logger.Debug("already fully processed")
		return nil
	}

	detector := r.Stability
	if detector.Logger == nil {
		detector.Logger = logger
	}
	if !detector.IsStable(ctx, primary) {
		logger.Info("file not stable yet, deferring to a later scan")
		return nil
	}

	if err := r.extractAudio(ctx, logger, primary); err != nil {
		return err
	}
	if err := r.transcribe(ctx, logger, primary); err != nil {
		return err
	}
	if err := r.packageItem(ctx, logger, primary); err != nil {
		return err
	}

	logger.Info("item fully processed",
		logging.String(logging.FieldStage, sidecar.StagePackaged.String()),
	)
	return nil
}

func (r *Runner) extractAudio(ctx context.Context, logger *slog.Logger, primary string) error {
	audioPath := sidecar.Path(primary, sidecar.KindAudio)
	if sidecar.StageOf(primary) >= sidecar.StageAudioExtracted {
		logger.Debug("audio sidecar already present", logging.String(logging.FieldPath, audioPath))
		return nil
	}
	if r.Extractor == nil {
		return services.Wrap(services.ErrConfiguration, "pipeline", "extract audio", "no extractor configured", nil)
	}

	stageCtx := services.WithStage(ctx, "extract_audio")
	if err := r.Extractor.ExtractAudio(stageCtx, primary, audioPath); err != nil {
		return services.Wrap(services.ErrExternalTool, "pipeline", "extract audio", "", err)
	}
	logging.WithContext(stageCtx, logger).Info("extracted audio", logging.String("audio", audioPath))
	return nil
}

func (r *Runner) transcribe(ctx context.Context, logger *slog.Logger, primary string) error {
	transcriptPath := sidecar.Path(primary, sidecar.KindTranscript)
	if sidecar.StageOf(primary) >= sidecar.StageTranscribed {
		logger.Debug("transcript sidecar already present", logging.String(logging.FieldPath, transcriptPath))
		return nil
	}
	if r.Transcriber == nil {
		return services.Wrap(services.ErrConfiguration, "pipeline", "transcribe", "no transcriber configured", nil)
	}

	stageCtx := services.WithStage(ctx, "transcribe")
	text, err := r.Transcriber.Transcribe(stageCtx, sidecar.Path(primary, sidecar.KindAudio), r.Model)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "pipeline", "transcribe", "", err)
	}
	if err := fileutil.WriteFileAtomic(transcriptPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	logging.WithContext(stageCtx, logger).Info("wrote transcript", logging.String("transcript", transcriptPath))
	return nil
}

func (r *Runner) packageItem(ctx context.Context, logger *slog.Logger, primary string) error {
	if sidecar.StageOf(primary) >= sidecar.StagePackaged {
		return nil
	}

	stageCtx := services.WithStage(ctx, "package")
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	model := r.Model
	if model == "" {
		model = whisper.DefaultModel
	}
	if err := writePackage(primary, r.BaseDir, "whisper-"+model, now); err != nil {
		return services.Wrap(services.ErrTransient, "pipeline", "package", "", err)
	}
	logging.WithContext(stageCtx, logger).Info("wrote package",
		logging.String("package", sidecar.Path(primary, sidecar.KindPackage)),
	)
	return nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return logging.NewNop()
	}
	return r.Logger
}
