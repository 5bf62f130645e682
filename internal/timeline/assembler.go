// Package timeline joins synchronized segments into one continuous demo
// video and optionally lays a faded, ducked music bed under the narration.
package timeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/indieNik/Automated-Product-Demo-Builder/internal/config"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/logging"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/media/ffmpeg"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/media/ffprobe"
)

// ErrNoSegments reports that every scene was skipped or failed, leaving
// nothing to assemble. This is fatal to the run.
var ErrNoSegments = errors.New("no segments to assemble")

// Assembler concatenates segments and applies the music bed.
type Assembler struct {
	profile ffmpeg.Profile
	audio   ffmpeg.AudioProfile
	runner  *ffmpeg.Runner
	prober  func(ctx context.Context, path string) (float64, error)
	logger  *slog.Logger
}

// Option customizes an Assembler.
type Option func(*Assembler)

// WithProber overrides duration probing (for testing).
func WithProber(prober func(ctx context.Context, path string) (float64, error)) Option {
	return func(a *Assembler) {
		a.prober = prober
	}
}

// New builds an Assembler around the canonical profiles and an ffmpeg runner.
func New(profile ffmpeg.Profile, audio ffmpeg.AudioProfile, runner *ffmpeg.Runner, ffprobeBinary string, logger *slog.Logger, opts ...Option) *Assembler {
	a := &Assembler{
		profile: profile,
		audio:   audio,
		runner:  runner,
		prober: func(ctx context.Context, path string) (float64, error) {
			return ffprobe.DurationSeconds(ctx, ffprobeBinary, path)
		},
		logger: logging.NewComponentLogger(logger, "timeline"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// WriteConcatList writes an ffmpeg concat demuxer list referencing each
// segment by absolute path. Single quotes inside a path are closed, escaped,
// and reopened per the demuxer's quoting rules.
func WriteConcatList(segments []string, path string) error {
	var sb strings.Builder
	for _, segment := range segments {
		abs, err := filepath.Abs(segment)
		if err != nil {
			return fmt.Errorf("resolve segment path %s: %w", segment, err)
		}
		fmt.Fprintf(&sb, "file '%s'\n", strings.ReplaceAll(abs, "'", `'\''`))
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	return nil
}

// Concat stream-copies the segments into one file at out. Every segment was
// encoded with the same canonical profile, so no re-encode is needed and the
// join is lossless. listDir receives the intermediate concat list.
func (a *Assembler) Concat(ctx context.Context, segments []string, listDir, out string) error {
	if len(segments) == 0 {
		return ErrNoSegments
	}

	listPath := filepath.Join(listDir, "concat.txt")
	if err := WriteConcatList(segments, listPath); err != nil {
		return err
	}

	a.logger.Debug("concatenating segments",
		logging.Int("segments", len(segments)),
		logging.String("output", out),
	)

	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		out,
	}
	if err := a.runner.Run(ctx, args); err != nil {
		return fmt.Errorf("concatenate %d segments: %w", len(segments), err)
	}
	return nil
}

// MixMusic lays the configured music bed under video's narration and writes
// the result to out. The narration stays dominant: the bed is ducked by the
// configured gain, fades in at the start, and fades out over the final
// seconds of the video. Mixing uses duration=longest with the bed faded to
// silence, so the video is never trimmed to a short music file.
func (a *Assembler) MixMusic(ctx context.Context, video, out string, music config.Music) error {
	videoSeconds, err := a.prober(ctx, video)
	if err != nil {
		return fmt.Errorf("probe video %s: %w", video, err)
	}

	fadeOutStart := videoSeconds - music.FadeOutSeconds
	if fadeOutStart < 0 {
		fadeOutStart = 0
	}

	filter := fmt.Sprintf(
		"[0:a]volume=%ddB[vo];"+
			"[1:a]volume=%ddB,afade=t=in:st=0:d=%g,afade=t=out:st=%g:d=%g[bgm];"+
			"[vo][bgm]amix=inputs=2:duration=longest:normalize=0[audio]",
		music.NarrationGainDB,
		music.MusicGainDB,
		music.FadeInSeconds,
		fadeOutStart,
		music.FadeOutSeconds,
	)

	a.logger.Debug("mixing music bed",
		logging.String("music", music.File),
		logging.Float64("video_seconds", videoSeconds),
		logging.Float64("fade_out_start", fadeOutStart),
	)

	args := []string{
		"-y",
		"-i", video,
		"-i", music.File,
		"-filter_complex", filter,
		"-map", "0:v",
		"-map", "[audio]",
	}
	args = append(args, a.profile.VideoArgs()...)
	args = append(args, a.audio.AudioArgs()...)
	args = append(args, out)

	if err := a.runner.Run(ctx, args); err != nil {
		return fmt.Errorf("mix music bed: %w", err)
	}
	return nil
}
