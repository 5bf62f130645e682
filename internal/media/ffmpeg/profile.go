package ffmpeg

import (
	"fmt"
	"strconv"
)

// Profile is the canonical video profile every assembled segment must share.
// Segments are only safe to concatenate by stream copy when they agree on all
// of these fields.
type Profile struct {
	Width       int
	Height      int
	PixelFormat string
	Codec       string
	Preset      string
	CRF         int
}

// AudioProfile is the audio encode applied whenever narration is muxed.
type AudioProfile struct {
	Codec   string
	Bitrate string
}

// ScalePadFilter letterboxes any input into the profile resolution without
// distortion: scale down preserving aspect, pad to the full frame, reset SAR.
func (p Profile) ScalePadFilter() string {
	return fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1",
		p.Width, p.Height, p.Width, p.Height,
	)
}

// VideoArgs returns the encoder arguments that pin a stream to the profile.
func (p Profile) VideoArgs() []string {
	args := []string{"-c:v", p.Codec}
	if p.Preset != "" {
		args = append(args, "-preset", p.Preset)
	}
	args = append(args, "-crf", strconv.Itoa(p.CRF), "-pix_fmt", p.PixelFormat)
	return args
}

// AudioArgs returns the encoder arguments for the narration track.
func (a AudioProfile) AudioArgs() []string {
	return []string{"-c:a", a.Codec, "-b:a", a.Bitrate}
}
