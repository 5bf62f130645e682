package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration for assets, staging, and output.
type Paths struct {
	ProjectRoot   string `toml:"project_root"`
	RecordingsDir string `toml:"recordings_dir"`
	ScenesDir     string `toml:"scenes_dir"`
	VoiceoverDir  string `toml:"voiceover_dir"`
	OutputFile    string `toml:"output_file"`
	StagingDir    string `toml:"staging_dir"`
	LogDir        string `toml:"log_dir"`
}

// Video contains the canonical encoding profile applied to every segment.
type Video struct {
	Width       int    `toml:"width"`
	Height      int    `toml:"height"`
	PixelFormat string `toml:"pixel_format"`
	Codec       string `toml:"codec"`
	Preset      string `toml:"preset"`
	CRF         int    `toml:"crf"`
	FallbackFPS int    `toml:"fallback_fps"`
}

// Audio contains the audio encoding settings used when muxing narration.
type Audio struct {
	Codec   string `toml:"codec"`
	Bitrate string `toml:"bitrate"`
}

// Assets contains thresholds applied while locating scene inputs.
type Assets struct {
	MinNarrationBytes int64 `toml:"min_narration_bytes"`
}

// Captions contains configuration for transcription and burned subtitles.
type Captions struct {
	Enabled           bool     `toml:"enabled"`
	Font              string   `toml:"font"`
	FontSize          int      `toml:"font_size"`
	WordsPerCue       int      `toml:"words_per_cue"`
	SecondsPerCue     float64  `toml:"seconds_per_cue"`
	Transcriber       string   `toml:"transcriber"`
	TranscriberArgs   []string `toml:"transcriber_args"`
	TranscribeTimeout int      `toml:"transcribe_timeout"`
}

// Music contains configuration for the optional background music bed.
type Music struct {
	Enabled         bool    `toml:"enabled"`
	File            string  `toml:"file"`
	NarrationGainDB int     `toml:"narration_gain_db"`
	MusicGainDB     int     `toml:"music_gain_db"`
	FadeInSeconds   float64 `toml:"fade_in_seconds"`
	FadeOutSeconds  float64 `toml:"fade_out_seconds"`
}

// History contains configuration for the local run-history database.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Assembly       bool   `toml:"assembly"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Tools contains overrides for external binaries discovered on PATH.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Config encapsulates all configuration values for demobuilder.
//
// Configuration sections by subsystem:
//   - Paths: project root, asset directories, staging, and final output
//   - Video: canonical segment profile (resolution, codec, quality)
//   - Audio: narration mux codec and bitrate
//   - Assets: locator thresholds
//   - Captions: transcription command and subtitle styling
//   - Music: optional background bed gains and fades
//   - History: local SQLite run history
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
//   - Tools: ffmpeg/ffprobe binary overrides
type Config struct {
	Paths         Paths         `toml:"paths"`
	Video         Video         `toml:"video"`
	Audio         Audio         `toml:"audio"`
	Assets        Assets        `toml:"assets"`
	Captions      Captions      `toml:"captions"`
	Music         Music         `toml:"music"`
	History       History       `toml:"history"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
	Tools         Tools         `toml:"tools"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/demobuilder/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	if env := strings.TrimSpace(os.Getenv("DEMOBUILDER_CONFIG")); env != "" {
		expanded, err := expandPath(env)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/demobuilder/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("demobuilder.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the pipeline writes into. Asset
// directories are owned by upstream collaborators and are never created here.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if out := strings.TrimSpace(c.Paths.OutputFile); out != "" {
		// Best-effort so config load survives when the output volume is offline.
		_ = os.MkdirAll(filepath.Dir(out), 0o755)
	}
	if c.History.Enabled && strings.TrimSpace(c.History.Path) != "" {
		if err := os.MkdirAll(filepath.Dir(c.History.Path), 0o755); err != nil {
			return fmt.Errorf("create history directory %q: %w", filepath.Dir(c.History.Path), err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable used for all encode and mux work.
func (c *Config) FFmpegBinary() string {
	if v := strings.TrimSpace(c.Tools.FFmpeg); v != "" {
		return v
	}
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable used for media inspection.
func (c *Config) FFprobeBinary() string {
	if v := strings.TrimSpace(c.Tools.FFprobe); v != "" {
		return v
	}
	return "ffprobe"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
