package captions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/indieNik/Automated-Product-Demo-Builder/internal/config"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/logging"
)

// ErrUnavailable reports that captions could not be produced for a segment.
// Callers proceed uncaptioned; this error is never fatal to a scene or run.
var ErrUnavailable = errors.New("captions unavailable")

// Generator turns one narration track into subtitle sidecar files.
type Generator struct {
	transcriber   Transcriber
	wordsPerCue   int
	secondsPerCue float64
	style         Style
	logger        *slog.Logger
}

// NewGenerator builds a Generator from caption and video configuration.
func NewGenerator(cfg *config.Config, transcriber Transcriber, logger *slog.Logger) *Generator {
	return &Generator{
		transcriber:   transcriber,
		wordsPerCue:   cfg.Captions.WordsPerCue,
		secondsPerCue: cfg.Captions.SecondsPerCue,
		style: Style{
			Font:     cfg.Captions.Font,
			FontSize: cfg.Captions.FontSize,
			PlayResX: cfg.Video.Width,
			PlayResY: cfg.Video.Height,
		},
		logger: logging.NewComponentLogger(logger, "captions"),
	}
}

// Sidecar transcribes the narration and writes both SRT and styled ASS files
// into dir, returning the ASS path for the subtitles burn-in filter.
func (g *Generator) Sidecar(ctx context.Context, narration, dir string) (string, error) {
	if g.transcriber == nil {
		return "", fmt.Errorf("no transcriber configured: %w", ErrUnavailable)
	}

	text, err := g.transcriber.Transcribe(ctx, narration)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	cues := ChunkTranscript(text, g.wordsPerCue, g.secondsPerCue)
	if len(cues) == 0 {
		return "", fmt.Errorf("%w: transcript for %s produced no cues", ErrUnavailable, narration)
	}

	stem := strings.TrimSuffix(filepath.Base(narration), filepath.Ext(narration))
	srtPath := filepath.Join(dir, stem+".srt")
	assPath := filepath.Join(dir, stem+".ass")

	if err := WriteSRT(cues, srtPath); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := WriteASS(cues, g.style, assPath); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	g.logger.Debug("caption sidecars written",
		logging.String("narration", narration),
		logging.Int("cues", len(cues)),
		logging.String("ass", assPath),
	)
	return assPath, nil
}
