package captions

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/indieNik/Automated-Product-Demo-Builder/internal/logging"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/testsupport"
)

func TestChunkTranscriptBoundaries(t *testing.T) {
	words := make([]string, 17)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i+1)
	}
	cues := ChunkTranscript(strings.Join(words, " "), 8, 4.0)

	if len(cues) != 3 {
		t.Fatalf("expected 3 cues for 17 words at 8 per cue, got %d", len(cues))
	}
	if cues[0].Text != strings.Join(words[:8], " ") {
		t.Fatalf("unexpected first cue text: %q", cues[0].Text)
	}
	if cues[2].Text != "w17" {
		t.Fatalf("expected final partial cue, got %q", cues[2].Text)
	}
	for i, cue := range cues {
		if cue.Index != i+1 {
			t.Fatalf("cue %d has index %d", i, cue.Index)
		}
		wantStart := time.Duration(i) * 4 * time.Second
		if cue.Start != wantStart || cue.End != wantStart+4*time.Second {
			t.Fatalf("cue %d timing %v-%v, want %v-%v", i, cue.Start, cue.End, wantStart, wantStart+4*time.Second)
		}
	}
}

func TestChunkTranscriptEmpty(t *testing.T) {
	if cues := ChunkTranscript("   \n\t ", 8, 4.0); cues != nil {
		t.Fatalf("expected nil cues for blank transcript, got %v", cues)
	}
}

func TestWriteSRTFormat(t *testing.T) {
	cues := []Cue{
		{Index: 1, Start: 0, End: 4 * time.Second, Text: "Meet the product"},
		{Index: 2, Start: 4 * time.Second, End: 8 * time.Second, Text: "built for teams"},
	}
	path := filepath.Join(t.TempDir(), "captions", "vo.srt")
	if err := WriteSRT(cues, path); err != nil {
		t.Fatalf("WriteSRT: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read srt: %v", err)
	}
	content := string(data)

	want := "1\n00:00:00,000 --> 00:00:04,000\nMeet the product\n\n" +
		"2\n00:00:04,000 --> 00:00:08,000\nbuilt for teams\n\n"
	if content != want {
		t.Fatalf("srt content mismatch:\n%q\nwant:\n%q", content, want)
	}
	if CountCues(content) != 2 {
		t.Fatalf("CountCues = %d, want 2", CountCues(content))
	}
	if err := ValidateSRT(content); err != nil {
		t.Fatalf("ValidateSRT: %v", err)
	}
}

func TestValidateSRTRejectsBrokenBlock(t *testing.T) {
	if err := ValidateSRT("1\nno arrow here\ntext\n\n"); err == nil {
		t.Fatal("expected validation error for missing timing arrow")
	}
	if err := ValidateSRT(""); err == nil {
		t.Fatal("expected validation error for empty content")
	}
}

func TestWriteASSStyling(t *testing.T) {
	cues := []Cue{
		{Index: 1, Start: 1500 * time.Millisecond, End: 5500 * time.Millisecond, Text: "Hello there"},
	}
	path := filepath.Join(t.TempDir(), "vo.ass")
	style := Style{Font: "Montserrat Bold", FontSize: 48, PlayResX: 1920, PlayResY: 1080}
	if err := WriteASS(cues, style, path); err != nil {
		t.Fatalf("WriteASS: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read ass: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"PlayResX: 1920",
		"PlayResY: 1080",
		"Style: Default,Montserrat Bold,48,",
		"Dialogue: 0,0:00:01.50,0:00:05.50,Default,,0,0,0,,Hello there",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("ass content missing %q:\n%s", want, content)
		}
	}
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f fakeTranscriber) Transcribe(context.Context, string) (string, error) {
	return f.text, f.err
}

func TestSidecarWritesBothFormats(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCaptions("transcribe"))
	g := NewGenerator(cfg, fakeTranscriber{text: "one two three four five six seven eight nine"}, logging.NewNop())

	dir := t.TempDir()
	assPath, err := g.Sidecar(context.Background(), "/audio/scene_1_vo.mp3", dir)
	if err != nil {
		t.Fatalf("Sidecar: %v", err)
	}
	if assPath != filepath.Join(dir, "scene_1_vo.ass") {
		t.Fatalf("unexpected ass path %s", assPath)
	}
	if _, err := os.Stat(filepath.Join(dir, "scene_1_vo.srt")); err != nil {
		t.Fatalf("srt sidecar missing: %v", err)
	}
}

func TestSidecarWrapsTranscriberFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCaptions("transcribe"))
	g := NewGenerator(cfg, fakeTranscriber{err: errors.New("model download failed")}, logging.NewNop())

	_, err := g.Sidecar(context.Background(), "/audio/scene_2_vo.mp3", t.TempDir())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestCLITranscriberUsesInjectedRunner(t *testing.T) {
	tr := NewCLITranscriber("whisper", []string{"--format", "txt"}, time.Minute)
	var gotName string
	var gotArgs []string
	tr.WithOutputRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotName = name
		gotArgs = args
		return []byte("  spoken words here \n"), nil
	})

	text, err := tr.Transcribe(context.Background(), "vo.mp3")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "spoken words here" {
		t.Fatalf("expected trimmed transcript, got %q", text)
	}
	if gotName != "whisper" {
		t.Fatalf("expected command name whisper, got %q", gotName)
	}
	if len(gotArgs) != 3 || gotArgs[2] != "vo.mp3" {
		t.Fatalf("audio path must be the final argument, got %v", gotArgs)
	}
}

func TestCLITranscriberRejectsEmptyTranscript(t *testing.T) {
	tr := NewCLITranscriber("whisper", nil, 0)
	tr.WithOutputRunner(func(context.Context, string, ...string) ([]byte, error) {
		return []byte("   "), nil
	})
	if _, err := tr.Transcribe(context.Background(), "vo.mp3"); err == nil {
		t.Fatal("expected error for empty transcript")
	}
}
