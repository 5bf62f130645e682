package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateVideo(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateAssets(); err != nil {
		return err
	}
	if err := c.validateCaptions(); err != nil {
		return err
	}
	if err := c.validateMusic(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateVideo() error {
	if err := ensurePositiveMap(map[string]int{
		"video.width":        c.Video.Width,
		"video.height":       c.Video.Height,
		"video.fallback_fps": c.Video.FallbackFPS,
	}); err != nil {
		return err
	}
	// 4:2:0 chroma subsampling requires even dimensions.
	if c.Video.PixelFormat == "yuv420p" && (c.Video.Width%2 != 0 || c.Video.Height%2 != 0) {
		return errors.New("video.width and video.height must be even for yuv420p")
	}
	if c.Video.CRF < 0 || c.Video.CRF > 51 {
		return errors.New("video.crf must be between 0 and 51")
	}
	if c.Video.Codec == "" {
		return errors.New("video.codec must be set")
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.Codec == "" {
		return errors.New("audio.codec must be set")
	}
	if c.Audio.Bitrate == "" {
		return errors.New("audio.bitrate must be set")
	}
	return nil
}

func (c *Config) validateAssets() error {
	if c.Assets.MinNarrationBytes < 0 {
		return errors.New("assets.min_narration_bytes must not be negative")
	}
	return nil
}

func (c *Config) validateCaptions() error {
	if !c.Captions.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Captions.Transcriber) == "" {
		return errors.New("captions.transcriber must be set when captions.enabled is true")
	}
	if err := ensurePositiveMap(map[string]int{
		"captions.font_size":          c.Captions.FontSize,
		"captions.words_per_cue":      c.Captions.WordsPerCue,
		"captions.transcribe_timeout": c.Captions.TranscribeTimeout,
	}); err != nil {
		return err
	}
	if c.Captions.SecondsPerCue <= 0 {
		return errors.New("captions.seconds_per_cue must be positive")
	}
	return nil
}

func (c *Config) validateMusic() error {
	if !c.Music.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Music.File) == "" {
		return errors.New("music.file must be set when music.enabled is true")
	}
	if c.Music.FadeInSeconds < 0 {
		return errors.New("music.fade_in_seconds must not be negative")
	}
	if c.Music.FadeOutSeconds < 0 {
		return errors.New("music.fade_out_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		return errors.New("history.path must be set when history.enabled is true")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if strings.TrimSpace(c.Notifications.NtfyTopic) == "" {
		return nil
	}
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if values[key] <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
