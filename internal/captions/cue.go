package captions

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Cue is a single timed caption.
type Cue struct {
	Index int
	Start time.Duration
	End   time.Duration
	Text  string
}

// ChunkTranscript splits a plain-text transcript into fixed-size cues:
// wordsPerCue words shown for cueSeconds each, back to back from t=0. The
// transcriber provides no word-level timestamps, so timing is estimated the
// same way for every narration track.
func ChunkTranscript(text string, wordsPerCue int, cueSeconds float64) []Cue {
	if wordsPerCue <= 0 {
		wordsPerCue = 8
	}
	if cueSeconds <= 0 {
		cueSeconds = 4.0
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	cueLength := time.Duration(cueSeconds * float64(time.Second))
	cues := make([]Cue, 0, (len(words)+wordsPerCue-1)/wordsPerCue)
	var current time.Duration
	for i := 0; i < len(words); i += wordsPerCue {
		end := i + wordsPerCue
		if end > len(words) {
			end = len(words)
		}
		cues = append(cues, Cue{
			Index: len(cues) + 1,
			Start: current,
			End:   current + cueLength,
			Text:  strings.Join(words[i:end], " "),
		})
		current += cueLength
	}
	return cues
}

// srtTimestamp renders HH:MM:SS,mmm.
func srtTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	minutes := int(d/time.Minute) % 60
	seconds := int(d/time.Second) % 60
	millis := int(d/time.Millisecond) % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

// assTimestamp renders H:MM:SS.cc (centiseconds).
func assTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	minutes := int(d/time.Minute) % 60
	seconds := int(d/time.Second) % 60
	centis := int(d/(10*time.Millisecond)) % 100
	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, seconds, centis)
}

// WriteSRT writes the cues in SubRip format.
func WriteSRT(cues []Cue, path string) error {
	var sb strings.Builder
	for _, cue := range cues {
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n\n", cue.Index, srtTimestamp(cue.Start), srtTimestamp(cue.End), cue.Text)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create captions dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write srt: %w", err)
	}
	return nil
}

// CountCues returns the number of cue blocks in SRT content.
func CountCues(srtContent string) int {
	count := 0
	for _, block := range strings.Split(strings.ReplaceAll(srtContent, "\r\n", "\n"), "\n\n") {
		if strings.TrimSpace(block) != "" {
			count++
		}
	}
	return count
}

// ValidateSRT performs a light structural check: every block needs an index
// line, a timing arrow, and text.
func ValidateSRT(srtContent string) error {
	content := strings.TrimSpace(strings.ReplaceAll(srtContent, "\r\n", "\n"))
	if content == "" {
		return fmt.Errorf("srt content is empty")
	}
	for i, block := range strings.Split(content, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		if len(lines) < 3 {
			return fmt.Errorf("srt block %d: expected index, timing, and text lines", i+1)
		}
		if !strings.Contains(lines[1], "-->") {
			return fmt.Errorf("srt block %d: missing timing arrow", i+1)
		}
	}
	return nil
}
