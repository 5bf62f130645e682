package ffmpeg

import (
	"strings"
	"testing"
)

func TestScalePadFilterLetterboxes(t *testing.T) {
	p := Profile{Width: 1920, Height: 1080, PixelFormat: "yuv420p", Codec: "libx264", Preset: "medium", CRF: 23}
	want := "scale=1920:1080:force_original_aspect_ratio=decrease,pad=1920:1080:(ow-iw)/2:(oh-ih)/2,setsar=1"
	if got := p.ScalePadFilter(); got != want {
		t.Fatalf("unexpected filter:\n got %q\nwant %q", got, want)
	}
}

func TestVideoArgsPinProfile(t *testing.T) {
	p := Profile{Width: 1280, Height: 720, PixelFormat: "yuv420p", Codec: "libx264", Preset: "fast", CRF: 20}
	got := strings.Join(p.VideoArgs(), " ")
	want := "-c:v libx264 -preset fast -crf 20 -pix_fmt yuv420p"
	if got != want {
		t.Fatalf("unexpected video args: %q", got)
	}
}

func TestVideoArgsOmitEmptyPreset(t *testing.T) {
	p := Profile{Width: 1280, Height: 720, PixelFormat: "yuv420p", Codec: "libx264", CRF: 23}
	got := strings.Join(p.VideoArgs(), " ")
	if strings.Contains(got, "-preset") {
		t.Fatalf("expected no preset flag, got %q", got)
	}
}

func TestAudioArgs(t *testing.T) {
	a := AudioProfile{Codec: "aac", Bitrate: "192k"}
	got := strings.Join(a.AudioArgs(), " ")
	if got != "-c:a aac -b:a 192k" {
		t.Fatalf("unexpected audio args: %q", got)
	}
}
