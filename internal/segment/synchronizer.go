// Package segment pairs one normalized clip with its narration: the clip is
// hold-padded so it never ends before the narration, captions are optionally
// burned in, and the narration is muxed as the sole audio track.
package segment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/indieNik/Automated-Product-Demo-Builder/internal/logging"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/media/ffmpeg"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/media/ffprobe"
)

// padMarginSeconds is breathing room held after the narration ends so the
// final frame never cuts off flush with the last spoken word.
const padMarginSeconds = 1.0

// Synchronizer builds synchronized segments.
type Synchronizer struct {
	profile ffmpeg.Profile
	audio   ffmpeg.AudioProfile
	runner  *ffmpeg.Runner
	prober  func(ctx context.Context, path string) (float64, error)
	logger  *slog.Logger
}

// Option customizes a Synchronizer.
type Option func(*Synchronizer)

// WithProber overrides duration probing (for testing).
func WithProber(prober func(ctx context.Context, path string) (float64, error)) Option {
	return func(s *Synchronizer) {
		s.prober = prober
	}
}

// New builds a Synchronizer around the canonical profiles and an ffmpeg
// runner. ffprobeBinary is used to measure clip and narration durations.
func New(profile ffmpeg.Profile, audio ffmpeg.AudioProfile, runner *ffmpeg.Runner, ffprobeBinary string, logger *slog.Logger, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		profile: profile,
		audio:   audio,
		runner:  runner,
		prober: func(ctx context.Context, path string) (float64, error) {
			return ffprobe.DurationSeconds(ctx, ffprobeBinary, path)
		},
		logger: logging.NewComponentLogger(logger, "segment"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PadSeconds computes the freeze-frame hold applied to a clip so it outlasts
// its narration. An unknown (zero) video duration still pads by the full
// narration length plus the margin, which errs on the long side.
func PadSeconds(videoSeconds, audioSeconds float64) float64 {
	pad := audioSeconds - videoSeconds + padMarginSeconds
	if pad < 0 {
		return 0
	}
	return pad
}

// FilterGraph assembles the video filter chain: hold-pad the final frame,
// then either burn subtitles or pass through. Looping from the start is never
// used because it produces a visible jump.
func FilterGraph(padSeconds float64, assPath string) string {
	graph := fmt.Sprintf("[0:v]tpad=stop_mode=clone:stop_duration=%.3f[v_padded]", padSeconds)
	if assPath != "" {
		graph += fmt.Sprintf(";[v_padded]subtitles='%s'[v_out]", escapeFilterPath(assPath))
	} else {
		graph += ";[v_padded]null[v_out]"
	}
	return graph
}

// escapeFilterPath makes a filesystem path safe inside a quoted ffmpeg
// filter argument. Backslashes become forward slashes rather than escapes.
func escapeFilterPath(path string) string {
	escaped := strings.ReplaceAll(path, `\`, "/")
	escaped = strings.ReplaceAll(escaped, ":", `\:`)
	escaped = strings.ReplaceAll(escaped, "'", `\'`)
	return escaped
}

// Build muxes one clip and one narration into a synchronized segment at out.
// assPath may be empty for an uncaptioned segment. When a captioned encode
// fails, it is retried once without the subtitles filter so a bad sidecar
// degrades the segment instead of killing the scene.
func (s *Synchronizer) Build(ctx context.Context, visualClip, narration, assPath, out string) error {
	videoSeconds, err := s.prober(ctx, visualClip)
	if err != nil {
		return fmt.Errorf("probe clip %s: %w", visualClip, err)
	}
	audioSeconds, err := s.prober(ctx, narration)
	if err != nil {
		return fmt.Errorf("probe narration %s: %w", narration, err)
	}

	pad := PadSeconds(videoSeconds, audioSeconds)
	s.logger.Debug("building segment",
		logging.Float64("video_seconds", videoSeconds),
		logging.Float64("audio_seconds", audioSeconds),
		logging.Float64("pad_seconds", pad),
		logging.Bool("captions", assPath != ""),
	)

	err = s.runner.Run(ctx, s.muxArgs(visualClip, narration, FilterGraph(pad, assPath), out))
	if err == nil {
		return nil
	}

	var cmdErr *ffmpeg.CommandError
	if assPath != "" && errors.As(err, &cmdErr) {
		logging.WarnWithContext(s.logger, "captioned encode failed, retrying without captions", "caption_burn_failed",
			logging.String("clip", visualClip),
			logging.Error(err),
			logging.String(logging.FieldImpact, "segment will have no burned captions"),
		)
		if retryErr := s.runner.Run(ctx, s.muxArgs(visualClip, narration, FilterGraph(pad, ""), out)); retryErr != nil {
			return fmt.Errorf("mux segment %s: %w", out, retryErr)
		}
		return nil
	}
	return fmt.Errorf("mux segment %s: %w", out, err)
}

// muxArgs encodes the padded, optionally captioned video with the narration
// attached as the only audio track. There is deliberately no -shortest: a
// visual longer than its narration plays out in full.
func (s *Synchronizer) muxArgs(visualClip, narration, filterGraph, out string) []string {
	args := []string{
		"-y",
		"-i", visualClip,
		"-i", narration,
		"-filter_complex", filterGraph,
		"-map", "[v_out]",
		"-map", "1:a",
	}
	args = append(args, s.profile.VideoArgs()...)
	args = append(args, s.audio.AudioArgs()...)
	args = append(args, out)
	return args
}
