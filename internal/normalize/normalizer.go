package normalize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/indieNik/Automated-Product-Demo-Builder/internal/logging"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/media/ffmpeg"
)

// ErrUnusableVisual reports that every conversion strategy failed for an
// asset. The scene is skipped; the run continues.
var ErrUnusableVisual = errors.New("visual asset unusable")

// Outcome records which strategy produced a normalized clip.
type Outcome struct {
	Path     string
	Strategy string
}

// Normalizer turns stills and recordings into canonical-profile clips.
type Normalizer struct {
	profile     ffmpeg.Profile
	fallbackFPS int
	runner      *ffmpeg.Runner
	logger      *slog.Logger
}

// New builds a Normalizer around the given encoder profile and runner.
func New(profile ffmpeg.Profile, fallbackFPS int, runner *ffmpeg.Runner, logger *slog.Logger) *Normalizer {
	if fallbackFPS <= 0 {
		fallbackFPS = 10
	}
	return &Normalizer{
		profile:     profile,
		fallbackFPS: fallbackFPS,
		runner:      runner,
		logger:      logging.NewComponentLogger(logger, "normalize"),
	}
}

// StillClip loops a static image into a clip of the requested duration,
// letterboxed into the canonical resolution.
func (n *Normalizer) StillClip(ctx context.Context, image string, duration float64, out string) error {
	if duration <= 0 {
		return fmt.Errorf("still clip %s: duration must be positive, got %g", image, duration)
	}
	if err := n.runner.Run(ctx, stillArgs(n.profile, image, duration, out)); err != nil {
		return fmt.Errorf("still clip %s: %w", image, err)
	}
	n.logger.Debug("created still clip",
		logging.String("image", image),
		logging.Float64("duration", duration),
		logging.String("clip", out),
	)
	return nil
}

// strategy is one entry in the ordered conversion chain for recordings.
type strategy struct {
	name string
	run  func(ctx context.Context) error
}

// RecordingClip converts a recording (mp4, mov, webm, animated webp, ...)
// into a canonical clip. Strategies are tried in order: a direct transcode
// first, then frame extraction and re-encode for containers ffmpeg cannot
// convert in one pass. A failed encode moves to the next strategy; a canceled
// context or missing binary aborts the chain.
func (n *Normalizer) RecordingClip(ctx context.Context, recording, workDir, out string) (Outcome, error) {
	strategies := []strategy{
		{
			name: "direct",
			run: func(ctx context.Context) error {
				return n.runner.Run(ctx, directArgs(n.profile, recording, out))
			},
		},
		{
			name: "frames",
			run: func(ctx context.Context) error {
				return n.framesFallback(ctx, recording, workDir, out)
			},
		},
	}

	var lastErr error
	for _, strat := range strategies {
		err := strat.run(ctx)
		if err == nil {
			n.logger.Debug("normalized recording",
				logging.String("recording", recording),
				logging.String("strategy", strat.name),
				logging.String("clip", out),
			)
			return Outcome{Path: out, Strategy: strat.name}, nil
		}
		if !retryable(err) {
			return Outcome{}, fmt.Errorf("normalize %s (%s): %w", recording, strat.name, err)
		}
		logging.WarnWithContext(n.logger, "conversion strategy failed", "normalize_strategy_failed",
			logging.String("recording", recording),
			logging.String("strategy", strat.name),
			logging.Error(err),
			logging.String(logging.FieldImpact, "trying next conversion strategy"),
		)
		lastErr = err
	}
	return Outcome{}, fmt.Errorf("normalize %s: %w: %w", recording, ErrUnusableVisual, lastErr)
}

// framesFallback decodes the recording into numbered stills at the fallback
// rate and re-encodes the sequence. Extracted frames are removed before
// returning, on success and on failure.
func (n *Normalizer) framesFallback(ctx context.Context, recording, workDir, out string) error {
	stem := strings.TrimSuffix(filepath.Base(recording), filepath.Ext(recording))
	framesDir := filepath.Join(workDir, "frames_"+stem)
	if err := os.MkdirAll(framesDir, 0o755); err != nil {
		return fmt.Errorf("create frames dir: %w", err)
	}
	defer os.RemoveAll(framesDir)

	pattern := filepath.Join(framesDir, "frame_%04d.png")
	if err := n.runner.Run(ctx, extractArgs(recording, n.fallbackFPS, pattern)); err != nil {
		return fmt.Errorf("extract frames: %w", err)
	}

	frames, err := filepath.Glob(filepath.Join(framesDir, "frame_*.png"))
	if err != nil {
		return fmt.Errorf("list frames: %w", err)
	}
	if len(frames) == 0 {
		return errors.New("extract frames: no frames produced")
	}
	n.logger.Debug("extracted frames for fallback encode",
		logging.String("recording", recording),
		logging.Int("frames", len(frames)),
		logging.Int("fps", n.fallbackFPS),
	)

	if err := n.runner.Run(ctx, stitchArgs(n.profile, n.fallbackFPS, pattern, out)); err != nil {
		return fmt.Errorf("stitch frames: %w", err)
	}
	return nil
}

// retryable reports whether a strategy failure should fall through to the
// next strategy. Encoder exits are retryable; cancellation and process start
// failures are not.
func retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var cmdErr *ffmpeg.CommandError
	if errors.As(err, &cmdErr) {
		return true
	}
	// A missing frames dir or an empty extraction is also worth retrying
	// only if another strategy remains; classify those as retryable.
	return strings.Contains(err.Error(), "no frames produced")
}
