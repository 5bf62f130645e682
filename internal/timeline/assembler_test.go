package timeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/indieNik/Automated-Product-Demo-Builder/internal/config"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/logging"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/media/ffmpeg"
)

func newTestAssembler(t *testing.T, videoSeconds float64, commandRunner func(ctx context.Context, name string, args ...string) error) *Assembler {
	t.Helper()
	runner := ffmpeg.NewRunner(ffmpeg.WithCommandRunner(commandRunner))
	profile := ffmpeg.Profile{Width: 1920, Height: 1080, PixelFormat: "yuv420p", Codec: "libx264", Preset: "medium", CRF: 18}
	audio := ffmpeg.AudioProfile{Codec: "aac", Bitrate: "192k"}
	return New(profile, audio, runner, "ffprobe", logging.NewNop(), WithProber(func(context.Context, string) (float64, error) {
		return videoSeconds, nil
	}))
}

func TestWriteConcatListAbsolutePaths(t *testing.T) {
	dir := t.TempDir()
	listPath := filepath.Join(dir, "concat.txt")
	if err := WriteConcatList([]string{filepath.Join(dir, "seg_1.mp4"), filepath.Join(dir, "seg_2.mp4")}, listPath); err != nil {
		t.Fatalf("WriteConcatList: %v", err)
	}

	data, err := os.ReadFile(listPath)
	if err != nil {
		t.Fatalf("read list: %v", err)
	}
	want := "file '" + filepath.Join(dir, "seg_1.mp4") + "'\n" +
		"file '" + filepath.Join(dir, "seg_2.mp4") + "'\n"
	if string(data) != want {
		t.Fatalf("list mismatch:\n%q\nwant:\n%q", string(data), want)
	}
}

func TestWriteConcatListEscapesQuotes(t *testing.T) {
	dir := t.TempDir()
	listPath := filepath.Join(dir, "concat.txt")
	if err := WriteConcatList([]string{filepath.Join(dir, "it's a demo.mp4")}, listPath); err != nil {
		t.Fatalf("WriteConcatList: %v", err)
	}

	data, err := os.ReadFile(listPath)
	if err != nil {
		t.Fatalf("read list: %v", err)
	}
	if !strings.Contains(string(data), `it'\''s a demo.mp4`) {
		t.Fatalf("quote not escaped: %q", string(data))
	}
}

func TestConcatStreamCopies(t *testing.T) {
	dir := t.TempDir()
	var got []string
	assembler := newTestAssembler(t, 0, func(_ context.Context, _ string, args ...string) error {
		got = append([]string(nil), args...)
		return nil
	})

	segments := []string{filepath.Join(dir, "seg_1.mp4"), filepath.Join(dir, "seg_2.mp4")}
	if err := assembler.Concat(context.Background(), segments, dir, filepath.Join(dir, "demo.mp4")); err != nil {
		t.Fatalf("Concat: %v", err)
	}

	joined := strings.Join(got, " ")
	for _, want := range []string{"-f concat", "-safe 0", "-c copy", filepath.Join(dir, "concat.txt")} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args missing %q: %s", want, joined)
		}
	}
	if strings.Contains(joined, "-c:v") {
		t.Fatalf("concat must not re-encode: %s", joined)
	}
}

func TestConcatRejectsEmptySegments(t *testing.T) {
	assembler := newTestAssembler(t, 0, func(context.Context, string, ...string) error {
		t.Fatal("ffmpeg must not run with no segments")
		return nil
	})
	if err := assembler.Concat(context.Background(), nil, t.TempDir(), "demo.mp4"); !errors.Is(err, ErrNoSegments) {
		t.Fatalf("expected ErrNoSegments, got %v", err)
	}
}

func TestMixMusicFilterGraph(t *testing.T) {
	var got []string
	assembler := newTestAssembler(t, 45.0, func(_ context.Context, _ string, args ...string) error {
		got = append([]string(nil), args...)
		return nil
	})

	music := config.Music{
		Enabled:         true,
		File:            "/music/bed.mp3",
		NarrationGainDB: -6,
		MusicGainDB:     -20,
		FadeInSeconds:   2,
		FadeOutSeconds:  3,
	}
	if err := assembler.MixMusic(context.Background(), "demo.mp4", "demo_scored.mp4", music); err != nil {
		t.Fatalf("MixMusic: %v", err)
	}

	joined := strings.Join(got, " ")
	wantFilter := "[0:a]volume=-6dB[vo];" +
		"[1:a]volume=-20dB,afade=t=in:st=0:d=2,afade=t=out:st=42:d=3[bgm];" +
		"[vo][bgm]amix=inputs=2:duration=longest:normalize=0[audio]"
	if !strings.Contains(joined, wantFilter) {
		t.Fatalf("filter graph mismatch:\n%s\nwant fragment:\n%s", joined, wantFilter)
	}
	for _, want := range []string{"-map 0:v", "-map [audio]", "/music/bed.mp3"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args missing %q: %s", want, joined)
		}
	}
}

func TestMixMusicClampsFadeOutOnShortVideo(t *testing.T) {
	var got []string
	assembler := newTestAssembler(t, 1.5, func(_ context.Context, _ string, args ...string) error {
		got = append([]string(nil), args...)
		return nil
	})

	music := config.Music{File: "/music/bed.mp3", FadeOutSeconds: 3}
	if err := assembler.MixMusic(context.Background(), "demo.mp4", "out.mp4", music); err != nil {
		t.Fatalf("MixMusic: %v", err)
	}
	if !strings.Contains(strings.Join(got, " "), "afade=t=out:st=0:d=3") {
		t.Fatalf("fade-out start must clamp to 0: %v", got)
	}
}
