package captions

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Style controls the typography of burned captions. Layout constants
// (margins, box alpha, bottom-center alignment) are fixed in the template;
// only font and size are tunable.
type Style struct {
	Font     string
	FontSize int
	PlayResX int
	PlayResY int
}

const assHeaderTemplate = `[Script Info]
Title: Product Demo Captions
ScriptType: v4.00+
WrapStyle: 0
PlayResX: %d
PlayResY: %d
ScaledBorderAndShadow: yes

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,%s,%d,&H00FFFFFF,&H000000FF,&H00000000,&H80000000,-1,0,0,0,100,100,0,0,1,2,1,2,10,10,80,1

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
`

// WriteASS writes the cues as a styled ASS subtitle file ready for burn-in.
func WriteASS(cues []Cue, style Style, path string) error {
	if style.Font == "" {
		style.Font = "Montserrat Bold"
	}
	if style.FontSize <= 0 {
		style.FontSize = 48
	}
	if style.PlayResX <= 0 {
		style.PlayResX = 1920
	}
	if style.PlayResY <= 0 {
		style.PlayResY = 1080
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, assHeaderTemplate, style.PlayResX, style.PlayResY, style.Font, style.FontSize)
	for _, cue := range cues {
		text := strings.ReplaceAll(strings.TrimSpace(cue.Text), "\n", " ")
		fmt.Fprintf(&sb, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
			assTimestamp(cue.Start), assTimestamp(cue.End), text)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create captions dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write ass: %w", err)
	}
	return nil
}
