package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/indieNik/Automated-Product-Demo-Builder/internal/config"
)

func TestLoadDefaultsDerivesAssetDirsFromProjectRoot(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("DEMOBUILDER_CONFIG", "")

	projectRoot := t.TempDir()
	t.Chdir(projectRoot)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	root, err := filepath.EvalSymlinks(projectRoot)
	if err != nil {
		t.Fatalf("eval symlinks: %v", err)
	}
	got, err := filepath.EvalSymlinks(cfg.Paths.ProjectRoot)
	if err != nil {
		t.Fatalf("eval symlinks: %v", err)
	}
	if got != root {
		t.Fatalf("unexpected project root: got %q want %q", got, root)
	}
	if !strings.HasSuffix(cfg.Paths.RecordingsDir, filepath.Join("INPUT", "raw_recordings")) {
		t.Fatalf("unexpected recordings dir: %q", cfg.Paths.RecordingsDir)
	}
	if !strings.HasSuffix(cfg.Paths.ScenesDir, filepath.Join("OUTPUT", "scenes")) {
		t.Fatalf("unexpected scenes dir: %q", cfg.Paths.ScenesDir)
	}
	if !strings.HasSuffix(cfg.Paths.VoiceoverDir, filepath.Join("OUTPUT", "voiceover")) {
		t.Fatalf("unexpected voiceover dir: %q", cfg.Paths.VoiceoverDir)
	}
	if !strings.HasSuffix(cfg.Paths.OutputFile, "Final_Demo_Video.mp4") {
		t.Fatalf("unexpected output file: %q", cfg.Paths.OutputFile)
	}

	wantStaging := filepath.Join(tempHome, ".local", "share", "demobuilder", "staging")
	if cfg.Paths.StagingDir != wantStaging {
		t.Fatalf("unexpected staging dir: got %q want %q", cfg.Paths.StagingDir, wantStaging)
	}

	if cfg.Video.Width != 1920 || cfg.Video.Height != 1080 {
		t.Fatalf("unexpected canonical resolution: %dx%d", cfg.Video.Width, cfg.Video.Height)
	}
	if cfg.Video.PixelFormat != "yuv420p" {
		t.Fatalf("unexpected pixel format: %q", cfg.Video.PixelFormat)
	}
	if cfg.Video.Codec != "libx264" {
		t.Fatalf("unexpected codec: %q", cfg.Video.Codec)
	}
	if cfg.Video.FallbackFPS != 10 {
		t.Fatalf("unexpected fallback fps: %d", cfg.Video.FallbackFPS)
	}
	if cfg.Assets.MinNarrationBytes != 100 {
		t.Fatalf("unexpected narration floor: %d", cfg.Assets.MinNarrationBytes)
	}
	if cfg.Captions.Enabled {
		t.Fatal("expected captions disabled by default")
	}
	if cfg.Music.Enabled {
		t.Fatal("expected music disabled by default")
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StagingDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadReadsExplicitFileAndExpandsTilde(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`project_root = "~/demo"`,
		`staging_dir = "~/stage"`,
		"[video]",
		"crf = 18",
	}, "\n")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Paths.ProjectRoot != filepath.Join(tempHome, "demo") {
		t.Fatalf("expected tilde expansion, got %q", cfg.Paths.ProjectRoot)
	}
	if cfg.Paths.StagingDir != filepath.Join(tempHome, "stage") {
		t.Fatalf("expected tilde expansion, got %q", cfg.Paths.StagingDir)
	}
	if cfg.Video.CRF != 18 {
		t.Fatalf("expected crf override, got %d", cfg.Video.CRF)
	}
	if cfg.Video.Preset != "medium" {
		t.Fatalf("expected preset default to survive partial [video] section, got %q", cfg.Video.Preset)
	}
}

func TestLoadHonorsEnvConfigPath(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "env.toml")
	if err := os.WriteFile(configPath, []byte("[video]\ncrf = 20\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DEMOBUILDER_CONFIG", configPath)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected env config to resolve, got %q exists=%v", resolved, exists)
	}
	if cfg.Video.CRF != 20 {
		t.Fatalf("expected crf from env config, got %d", cfg.Video.CRF)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:    "odd width with yuv420p",
			mutate:  func(c *config.Config) { c.Video.Width = 1921 },
			wantErr: "must be even",
		},
		{
			name:    "crf out of range",
			mutate:  func(c *config.Config) { c.Video.CRF = 52 },
			wantErr: "video.crf",
		},
		{
			name:    "captions enabled without transcriber",
			mutate:  func(c *config.Config) { c.Captions.Enabled = true; c.Captions.Transcriber = "" },
			wantErr: "captions.transcriber",
		},
		{
			name:    "music enabled without file",
			mutate:  func(c *config.Config) { c.Music.Enabled = true; c.Music.File = "" },
			wantErr: "music.file",
		},
		{
			name:    "negative narration floor",
			mutate:  func(c *config.Config) { c.Assets.MinNarrationBytes = -1 },
			wantErr: "min_narration_bytes",
		},
		{
			name:    "bad log format",
			mutate:  func(c *config.Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestSampleConfigRoundTrips(t *testing.T) {
	samplePath := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(samplePath); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	data, err := os.ReadFile(samplePath)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	cfg := config.Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config does not validate: %v", err)
	}
}
