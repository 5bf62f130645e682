package deps

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/indieNik/Automated-Product-Demo-Builder/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unconfigured", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected status for blank command: %#v", results[2])
	}
}

func TestRequirementsIncludeTranscriberOnlyWhenCaptionsEnabled(t *testing.T) {
	cfg := config.Default()
	cfg.Captions.Enabled = false

	names := func(reqs []Requirement) []string {
		out := make([]string, 0, len(reqs))
		for _, req := range reqs {
			out = append(out, req.Name)
		}
		return out
	}

	without := Requirements(&cfg)
	if len(without) != 2 {
		t.Fatalf("expected ffmpeg and ffprobe only, got %v", names(without))
	}

	cfg.Captions.Enabled = true
	cfg.Captions.Transcriber = "whisper"
	with := Requirements(&cfg)
	if len(with) != 3 || with[2].Name != "Transcriber" || with[2].Command != "whisper" {
		t.Fatalf("expected transcriber requirement, got %v", names(with))
	}
}

func TestRequirementsHonorToolOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Tools.FFmpeg = "/opt/ffmpeg/bin/ffmpeg"
	cfg.Tools.FFprobe = "/opt/ffmpeg/bin/ffprobe"

	reqs := Requirements(&cfg)
	if reqs[0].Command != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("ffmpeg override ignored: %s", reqs[0].Command)
	}
	if reqs[1].Command != "/opt/ffmpeg/bin/ffprobe" {
		t.Fatalf("ffprobe override ignored: %s", reqs[1].Command)
	}
}
