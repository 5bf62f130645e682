package assets

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/indieNik/Automated-Product-Demo-Builder/internal/config"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/logging"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/storyline"
)

// Sentinel errors for the asset-missing class. All three mean the scene is
// skipped rather than failed.
var (
	ErrVisualNotFound    = errors.New("visual asset not found")
	ErrNarrationNotFound = errors.New("narration audio not found")
	ErrNarrationTooSmall = errors.New("narration audio below minimum size")
)

// Kind distinguishes the two visual-asset families the pipeline accepts.
type Kind string

const (
	KindStill     Kind = "still"
	KindRecording Kind = "recording"
)

// Resolved holds the asset paths selected for one scene.
type Resolved struct {
	Visual     string
	VisualKind Kind
	Narration  string
}

// Locator resolves scene descriptors to concrete asset paths.
type Locator struct {
	recordingsDir     string
	scenesDir         string
	voiceoverDir      string
	minNarrationBytes int64
	logger            *slog.Logger
}

// NewLocator builds a Locator from the configured asset directories.
func NewLocator(cfg *config.Config, logger *slog.Logger) *Locator {
	return &Locator{
		recordingsDir:     cfg.Paths.RecordingsDir,
		scenesDir:         cfg.Paths.ScenesDir,
		voiceoverDir:      cfg.Paths.VoiceoverDir,
		minNarrationBytes: cfg.Assets.MinNarrationBytes,
		logger:            logging.NewComponentLogger(logger, "assets"),
	}
}

// Resolve returns the best visual asset and the narration audio for a scene.
// Missing or undersized assets come back as the package sentinel errors so
// the caller can skip the scene instead of failing the run.
func (l *Locator) Resolve(scene storyline.Scene) (Resolved, error) {
	resolved := Resolved{}

	if scene.Role.Still() {
		still := filepath.Join(l.scenesDir, scene.StillFile)
		if _, err := os.Stat(still); err != nil {
			return Resolved{}, fmt.Errorf("scene %d: still %s: %w", scene.Index, still, ErrVisualNotFound)
		}
		resolved.Visual = still
		resolved.VisualKind = KindStill
	} else {
		visual, err := l.newestRecording(scene)
		if err != nil {
			return Resolved{}, err
		}
		resolved.Visual = visual
		resolved.VisualKind = KindRecording
	}

	narration := filepath.Join(l.voiceoverDir, scene.NarrationFile)
	info, err := os.Stat(narration)
	if err != nil {
		return Resolved{}, fmt.Errorf("scene %d: narration %s: %w", scene.Index, narration, ErrNarrationNotFound)
	}
	if info.Size() < l.minNarrationBytes {
		// Synthesis failures still leave a file handle behind; a near-empty
		// narration is treated exactly like a missing one.
		return Resolved{}, fmt.Errorf("scene %d: narration %s is %d bytes: %w",
			scene.Index, narration, info.Size(), ErrNarrationTooSmall)
	}
	resolved.Narration = narration

	l.logger.Debug("resolved scene assets",
		logging.Int(logging.FieldScene, scene.Index),
		logging.String("visual", resolved.Visual),
		logging.String("visual_kind", string(resolved.VisualKind)),
		logging.String("narration", resolved.Narration),
	)
	return resolved, nil
}

// newestRecording globs the scene's candidate filenames across its extensions
// and applies the recency selection policy.
func (l *Locator) newestRecording(scene storyline.Scene) (string, error) {
	var candidates []string
	for _, ext := range scene.RecordingExtensions {
		pattern := filepath.Join(l.recordingsDir, fmt.Sprintf("scene_%d_*.%s", scene.Index, ext))
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return "", fmt.Errorf("scene %d: glob %s: %w", scene.Index, pattern, err)
		}
		candidates = append(candidates, matches...)
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("scene %d: no recording matches scene_%d_* under %s: %w",
			scene.Index, scene.Index, l.recordingsDir, ErrVisualNotFound)
	}

	chosen, err := newestPath(candidates)
	if err != nil {
		return "", fmt.Errorf("scene %d: %w", scene.Index, err)
	}
	if len(candidates) > 1 {
		l.logger.Debug("multiple recording candidates",
			logging.Int(logging.FieldScene, scene.Index),
			logging.Int("candidates", len(candidates)),
			logging.String("chosen", chosen),
		)
	}
	return chosen, nil
}

// newestPath implements the documented selection policy for competing
// captures: the latest modification time wins, because a re-recorded take
// supersedes earlier ones. Equal timestamps resolve to the lexicographically
// larger path so the choice is deterministic regardless of glob order.
func newestPath(paths []string) (string, error) {
	var (
		best     string
		bestInfo os.FileInfo
	)
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return "", fmt.Errorf("stat candidate %s: %w", path, err)
		}
		if bestInfo == nil ||
			info.ModTime().After(bestInfo.ModTime()) ||
			(info.ModTime().Equal(bestInfo.ModTime()) && path > best) {
			best = path
			bestInfo = info
		}
	}
	if best == "" {
		return "", errors.New("no candidates")
	}
	return best, nil
}
