// Package pipeline runs one assembly end to end: it walks the scene plan,
// resolves and normalizes assets, synchronizes each scene with its narration,
// concatenates the survivors in plan order, and publishes the final video.
// Scene-level problems skip or fail that scene only; the run dies only when
// nothing at all could be assembled.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/indieNik/Automated-Product-Demo-Builder/internal/assets"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/captions"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/config"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/history"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/logging"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/media/ffmpeg"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/media/ffprobe"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/normalize"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/notifications"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/segment"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/storyline"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/timeline"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/workspace"
)

// Locator resolves a scene's assets.
type Locator interface {
	Resolve(scene storyline.Scene) (assets.Resolved, error)
}

// Normalizer turns located assets into canonical-profile clips.
type Normalizer interface {
	StillClip(ctx context.Context, image string, duration float64, out string) error
	RecordingClip(ctx context.Context, recording, workDir, out string) (normalize.Outcome, error)
}

// CaptionSource produces a burn-in sidecar for a narration track.
type CaptionSource interface {
	Sidecar(ctx context.Context, narration, dir string) (string, error)
}

// SegmentBuilder pairs a clip with its narration.
type SegmentBuilder interface {
	Build(ctx context.Context, visualClip, narration, assPath, out string) error
}

// Assembler joins segments and applies the music bed.
type Assembler interface {
	Concat(ctx context.Context, segments []string, listDir, out string) error
	MixMusic(ctx context.Context, video, out string, music config.Music) error
}

// HistoryStore records run outcomes. A nil store is valid and records nothing.
type HistoryStore interface {
	StartRun(ctx context.Context, runID string, scenesTotal int) error
	RecordScene(ctx context.Context, record history.SceneRecord) error
	FinishRun(ctx context.Context, runID, status, outputPath string, assembled, skipped, failed int, runErr error) error
}

// Deps bundles the components a Driver orchestrates.
type Deps struct {
	Locator    Locator
	Normalizer Normalizer
	Captions   CaptionSource // nil disables caption burn-in
	Segments   SegmentBuilder
	Assembler  Assembler
	Prober     func(ctx context.Context, path string) (float64, error)
	History    HistoryStore // nil disables run history
	Notifier   notifications.Service
}

// NewDeps wires the production components for the given configuration.
// store may be nil when history is disabled.
func NewDeps(cfg *config.Config, store *history.Store, logger *slog.Logger) Deps {
	profile := ffmpeg.Profile{
		Width:       cfg.Video.Width,
		Height:      cfg.Video.Height,
		PixelFormat: cfg.Video.PixelFormat,
		Codec:       cfg.Video.Codec,
		Preset:      cfg.Video.Preset,
		CRF:         cfg.Video.CRF,
	}
	audio := ffmpeg.AudioProfile{Codec: cfg.Audio.Codec, Bitrate: cfg.Audio.Bitrate}
	runner := ffmpeg.NewRunner(ffmpeg.WithBinary(cfg.FFmpegBinary()), ffmpeg.WithLogger(logger))

	var captionSource CaptionSource
	if cfg.Captions.Enabled {
		transcriber := captions.NewCLITranscriber(
			cfg.Captions.Transcriber,
			cfg.Captions.TranscriberArgs,
			time.Duration(cfg.Captions.TranscribeTimeout)*time.Second,
		)
		captionSource = captions.NewGenerator(cfg, transcriber, logger)
	}

	var historyStore HistoryStore
	if store != nil {
		historyStore = store
	}

	return Deps{
		Locator:    assets.NewLocator(cfg, logger),
		Normalizer: normalize.New(profile, cfg.Video.FallbackFPS, runner, logger),
		Captions:   captionSource,
		Segments:   segment.New(profile, audio, runner, cfg.FFprobeBinary(), logger),
		Assembler:  timeline.New(profile, audio, runner, cfg.FFprobeBinary(), logger),
		Prober: func(ctx context.Context, path string) (float64, error) {
			return ffprobe.DurationSeconds(ctx, cfg.FFprobeBinary(), path)
		},
		History:  historyStore,
		Notifier: notifications.NewService(cfg),
	}
}

// Driver executes assembly runs.
type Driver struct {
	cfg    *config.Config
	plan   storyline.Plan
	deps   Deps
	logger *slog.Logger
}

// NewDriver builds a Driver for the given plan and dependencies.
func NewDriver(cfg *config.Config, plan storyline.Plan, deps Deps, logger *slog.Logger) *Driver {
	if deps.Notifier == nil {
		deps.Notifier = notifications.NewService(cfg)
	}
	return &Driver{
		cfg:    cfg,
		plan:   plan,
		deps:   deps,
		logger: logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Run assembles the demo video and returns a per-scene report. The report is
// returned alongside the error whenever scenes were attempted, so callers can
// render what happened even for a failed run.
func (d *Driver) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:   uuid.New().String(),
		Started: time.Now(),
	}
	log := d.logger.With(logging.String(logging.FieldRunID, report.RunID))

	runDir, err := workspace.NewRunDir(d.cfg.Paths.StagingDir, report.RunID)
	if err != nil {
		return report, err
	}

	if err := d.recordStart(ctx, report); err != nil {
		logging.WarnWithContext(log, "failed to record run start", "history_write_failed", logging.Error(err))
	}
	if err := d.deps.Notifier.NotifyAssemblyStarted(ctx, len(d.plan)); err != nil {
		logging.WarnWithContext(log, "start notification failed", "notification_failed", logging.Error(err))
	}

	runErr := d.assemble(ctx, report, runDir, log)

	report.Finished = time.Now()
	d.finish(report, runErr, log)

	if runErr != nil {
		return report, runErr
	}
	if err := workspace.Scrub(runDir); err != nil {
		logging.WarnWithContext(log, "failed to clean run directory", "staging_cleanup_failed",
			logging.String("path", runDir), logging.Error(err))
	}
	return report, nil
}

func (d *Driver) assemble(ctx context.Context, report *Report, runDir string, log *slog.Logger) error {
	var segments []string
	for _, scene := range d.plan {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("assembly canceled: %w", err)
		}

		result := d.runScene(ctx, scene, runDir, log)
		report.Scenes = append(report.Scenes, result)
		d.recordScene(ctx, report.RunID, result, log)

		if result.Status == StatusDone {
			segments = append(segments, result.Segment)
		}
	}

	if len(segments) == 0 {
		return fmt.Errorf("all %d scenes skipped or failed: %w", len(d.plan), timeline.ErrNoSegments)
	}

	assembled := filepath.Join(runDir, "demo.mp4")
	if err := d.deps.Assembler.Concat(ctx, segments, runDir, assembled); err != nil {
		return err
	}

	if d.cfg.Music.Enabled {
		// A missing bed skips the mix; it never costs the run.
		if _, statErr := os.Stat(d.cfg.Music.File); statErr != nil {
			log.Info("music bed skipped", logging.Args(
				logging.String("music_file", d.cfg.Music.File),
				logging.String("reason", "music file not found"),
			)...)
		} else {
			scored := filepath.Join(runDir, "demo_scored.mp4")
			if err := d.deps.Assembler.MixMusic(ctx, assembled, scored, d.cfg.Music); err != nil {
				return err
			}
			assembled = scored
		}
	}

	if err := workspace.PublishFile(assembled, d.cfg.Paths.OutputFile); err != nil {
		return err
	}
	report.Output = d.cfg.Paths.OutputFile

	log.Info("demo assembled", logging.Args(
		logging.String("output", report.Output),
		logging.Int("segments", len(segments)),
	)...)
	return nil
}

// runScene takes one scene from located assets to a finished segment. Asset
// problems skip the scene; conversion or mux errors fail it. Neither stops
// the surrounding run.
func (d *Driver) runScene(ctx context.Context, scene storyline.Scene, runDir string, log *slog.Logger) SceneResult {
	start := time.Now()
	result := SceneResult{Scene: scene, Status: StatusLocating}

	resolved, err := d.deps.Locator.Resolve(scene)
	if err != nil {
		result.Elapsed = time.Since(start)
		if skippable(err) {
			result.Status = StatusSkipped
			result.SkipReason = err.Error()
			logging.WarnWithContext(log, "scene skipped", "scene_skipped",
				logging.Int(logging.FieldScene, scene.Index),
				logging.String(logging.FieldSceneRole, string(scene.Role)),
				logging.Error(err),
				logging.String(logging.FieldImpact, "demo assembled without this scene"),
			)
		} else {
			result.Status = StatusFailed
			result.Err = err
		}
		return result
	}
	result.Source = resolved.Visual

	result.Status = StatusNormalizing
	clip := filepath.Join(runDir, fmt.Sprintf("clip_%d_%s.mp4", scene.Index, scene.Slug))
	switch resolved.VisualKind {
	case assets.KindStill:
		narrationSeconds, probeErr := d.deps.Prober(ctx, resolved.Narration)
		if probeErr != nil {
			return d.failScene(result, start, fmt.Errorf("probe narration %s: %w", resolved.Narration, probeErr), log)
		}
		if err := d.deps.Normalizer.StillClip(ctx, resolved.Visual, narrationSeconds+scene.HoldSeconds, clip); err != nil {
			return d.failScene(result, start, err, log)
		}
		result.Strategy = "still"
	default:
		outcome, normErr := d.deps.Normalizer.RecordingClip(ctx, resolved.Visual, runDir, clip)
		if normErr != nil {
			result.Elapsed = time.Since(start)
			if errors.Is(normErr, normalize.ErrUnusableVisual) {
				result.Status = StatusSkipped
				result.SkipReason = normErr.Error()
				logging.WarnWithContext(log, "scene skipped", "scene_skipped",
					logging.Int(logging.FieldScene, scene.Index),
					logging.Error(normErr),
					logging.String(logging.FieldImpact, "demo assembled without this scene"),
				)
				return result
			}
			result.Status = StatusFailed
			result.Err = normErr
			return result
		}
		result.Strategy = outcome.Strategy
	}

	assPath := ""
	if d.deps.Captions != nil {
		sidecar, capErr := d.deps.Captions.Sidecar(ctx, resolved.Narration, runDir)
		if capErr != nil {
			// Captions are best-effort; a dead transcriber must not cost a scene.
			logging.WarnWithContext(log, "captions unavailable", "captions_unavailable",
				logging.Int(logging.FieldScene, scene.Index),
				logging.Error(capErr),
				logging.String(logging.FieldImpact, "scene proceeds without captions"),
			)
		} else {
			assPath = sidecar
			result.Captioned = true
		}
	}

	result.Status = StatusSynchronizing
	seg := filepath.Join(runDir, fmt.Sprintf("seg_%d_%s.mp4", scene.Index, scene.Slug))
	if err := d.deps.Segments.Build(ctx, clip, resolved.Narration, assPath, seg); err != nil {
		return d.failScene(result, start, err, log)
	}

	result.Status = StatusDone
	result.Segment = seg
	result.Elapsed = time.Since(start)
	log.Info("scene assembled", logging.Args(
		logging.Int(logging.FieldScene, scene.Index),
		logging.String(logging.FieldSceneRole, string(scene.Role)),
		logging.String("strategy", result.Strategy),
		logging.Bool("captioned", result.Captioned),
		logging.Duration("elapsed", result.Elapsed),
	)...)
	return result
}

func (d *Driver) failScene(result SceneResult, start time.Time, err error, log *slog.Logger) SceneResult {
	result.Status = StatusFailed
	result.Err = err
	result.Elapsed = time.Since(start)
	logging.ErrorWithContext(log, "scene failed", "scene_failed",
		logging.Int(logging.FieldScene, result.Scene.Index),
		logging.Error(err),
		logging.String(logging.FieldImpact, "demo assembled without this scene"),
	)
	return result
}

// skippable reports whether a locate error belongs to the asset-missing
// class, which drops the scene without failing the run.
func skippable(err error) bool {
	return errors.Is(err, assets.ErrVisualNotFound) ||
		errors.Is(err, assets.ErrNarrationNotFound) ||
		errors.Is(err, assets.ErrNarrationTooSmall)
}

func (d *Driver) recordStart(ctx context.Context, report *Report) error {
	if d.deps.History == nil {
		return nil
	}
	return d.deps.History.StartRun(ctx, report.RunID, len(d.plan))
}

func (d *Driver) recordScene(ctx context.Context, runID string, result SceneResult, log *slog.Logger) {
	if d.deps.History == nil {
		return
	}
	err := d.deps.History.RecordScene(ctx, history.SceneRecord{
		RunID:       runID,
		SceneIndex:  result.Scene.Index,
		Role:        string(result.Scene.Role),
		Status:      string(result.Status),
		SkipReason:  result.SkipReason,
		SourcePath:  result.Source,
		SegmentPath: result.Segment,
		Elapsed:     result.Elapsed,
	})
	if err != nil {
		logging.WarnWithContext(log, "failed to record scene outcome", "history_write_failed",
			logging.Int(logging.FieldScene, result.Scene.Index), logging.Error(err))
	}
}

// finish closes out history and notifications. It runs on a background
// context so a canceled run still records its ending.
func (d *Driver) finish(report *Report, runErr error, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	status := "completed"
	if runErr != nil {
		status = "failed"
	}
	if d.deps.History != nil {
		if err := d.deps.History.FinishRun(ctx, report.RunID, status, report.Output,
			report.Assembled(), report.Skipped(), report.Failed(), runErr); err != nil {
			logging.WarnWithContext(log, "failed to record run completion", "history_write_failed", logging.Error(err))
		}
	}

	var notifyErr error
	if runErr != nil {
		notifyErr = d.deps.Notifier.NotifyAssemblyFailed(ctx, runErr)
	} else {
		notifyErr = d.deps.Notifier.NotifyAssemblyCompleted(ctx, report.Output, report.Assembled(), report.Skipped(), report.Duration())
	}
	if notifyErr != nil {
		logging.WarnWithContext(log, "completion notification failed", "notification_failed", logging.Error(notifyErr))
	}
}
