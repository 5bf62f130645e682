package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeMusic(); err != nil {
		return err
	}
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeCaptions()
	c.normalizeVideo()
	c.normalizeAudio()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ProjectRoot) == "" {
		c.Paths.ProjectRoot = "."
	}
	if c.Paths.ProjectRoot, err = expandPath(c.Paths.ProjectRoot); err != nil {
		return fmt.Errorf("paths.project_root: %w", err)
	}

	if strings.TrimSpace(c.Paths.RecordingsDir) == "" {
		c.Paths.RecordingsDir = filepath.Join(c.Paths.ProjectRoot, defaultRecordingsSubdir)
	}
	if c.Paths.RecordingsDir, err = expandPath(c.Paths.RecordingsDir); err != nil {
		return fmt.Errorf("paths.recordings_dir: %w", err)
	}

	if strings.TrimSpace(c.Paths.ScenesDir) == "" {
		c.Paths.ScenesDir = filepath.Join(c.Paths.ProjectRoot, defaultScenesSubdir)
	}
	if c.Paths.ScenesDir, err = expandPath(c.Paths.ScenesDir); err != nil {
		return fmt.Errorf("paths.scenes_dir: %w", err)
	}

	if strings.TrimSpace(c.Paths.VoiceoverDir) == "" {
		c.Paths.VoiceoverDir = filepath.Join(c.Paths.ProjectRoot, defaultVoiceoverSubdir)
	}
	if c.Paths.VoiceoverDir, err = expandPath(c.Paths.VoiceoverDir); err != nil {
		return fmt.Errorf("paths.voiceover_dir: %w", err)
	}

	if strings.TrimSpace(c.Paths.OutputFile) == "" {
		c.Paths.OutputFile = filepath.Join(c.Paths.ProjectRoot, defaultOutputSubpath)
	}
	if c.Paths.OutputFile, err = expandPath(c.Paths.OutputFile); err != nil {
		return fmt.Errorf("paths.output_file: %w", err)
	}

	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}

	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMusic() error {
	c.Music.File = strings.TrimSpace(c.Music.File)
	if c.Music.File == "" {
		return nil
	}
	expanded, err := expandPath(c.Music.File)
	if err != nil {
		return fmt.Errorf("music.file: %w", err)
	}
	c.Music.File = expanded
	return nil
}

func (c *Config) normalizeHistory() error {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	expanded, err := expandPath(c.History.Path)
	if err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	c.History.Path = expanded
	return nil
}

func (c *Config) normalizeCaptions() {
	c.Captions.Font = strings.TrimSpace(c.Captions.Font)
	if c.Captions.Font == "" {
		c.Captions.Font = defaultCaptionFont
	}
	if c.Captions.FontSize <= 0 {
		c.Captions.FontSize = defaultCaptionFontSize
	}
	if c.Captions.WordsPerCue <= 0 {
		c.Captions.WordsPerCue = defaultWordsPerCue
	}
	if c.Captions.SecondsPerCue <= 0 {
		c.Captions.SecondsPerCue = defaultSecondsPerCue
	}
	c.Captions.Transcriber = strings.TrimSpace(c.Captions.Transcriber)
	if c.Captions.TranscribeTimeout <= 0 {
		c.Captions.TranscribeTimeout = defaultTranscribeTimeout
	}
}

func (c *Config) normalizeVideo() {
	c.Video.PixelFormat = strings.TrimSpace(c.Video.PixelFormat)
	if c.Video.PixelFormat == "" {
		c.Video.PixelFormat = defaultVideoPixelFormat
	}
	c.Video.Codec = strings.TrimSpace(c.Video.Codec)
	if c.Video.Codec == "" {
		c.Video.Codec = defaultVideoCodec
	}
	c.Video.Preset = strings.TrimSpace(c.Video.Preset)
	if c.Video.Preset == "" {
		c.Video.Preset = defaultVideoPreset
	}
	if c.Video.Width <= 0 {
		c.Video.Width = defaultVideoWidth
	}
	if c.Video.Height <= 0 {
		c.Video.Height = defaultVideoHeight
	}
	if c.Video.FallbackFPS <= 0 {
		c.Video.FallbackFPS = defaultFallbackFPS
	}
}

func (c *Config) normalizeAudio() {
	c.Audio.Codec = strings.TrimSpace(c.Audio.Codec)
	if c.Audio.Codec == "" {
		c.Audio.Codec = defaultAudioCodec
	}
	c.Audio.Bitrate = strings.TrimSpace(c.Audio.Bitrate)
	if c.Audio.Bitrate == "" {
		c.Audio.Bitrate = defaultAudioBitrate
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
