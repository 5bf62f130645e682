package normalize

import (
	"strconv"

	"github.com/indieNik/Automated-Product-Demo-Builder/internal/media/ffmpeg"
)

// stillArgs loops a single image into a clip of the requested duration.
func stillArgs(profile ffmpeg.Profile, image string, duration float64, out string) []string {
	args := []string{"-y", "-loop", "1", "-i", image}
	args = append(args, profile.VideoArgs()...)
	args = append(args,
		"-t", strconv.FormatFloat(duration, 'f', 3, 64),
		"-vf", profile.ScalePadFilter(),
		out,
	)
	return args
}

// directArgs transcodes a recording straight into the canonical profile.
func directArgs(profile ffmpeg.Profile, recording, out string) []string {
	args := []string{"-y", "-i", recording}
	args = append(args, profile.VideoArgs()...)
	args = append(args, "-vf", profile.ScalePadFilter(), out)
	return args
}

// extractArgs decodes a recording into numbered still frames at a fixed rate.
func extractArgs(recording string, fps int, framePattern string) []string {
	return []string{
		"-y",
		"-i", recording,
		"-vf", "fps=" + strconv.Itoa(fps),
		framePattern,
	}
}

// stitchArgs re-encodes an extracted frame sequence at the extraction rate.
func stitchArgs(profile ffmpeg.Profile, fps int, framePattern, out string) []string {
	args := []string{"-y", "-framerate", strconv.Itoa(fps), "-i", framePattern}
	args = append(args, profile.VideoArgs()...)
	args = append(args, "-vf", profile.ScalePadFilter(), out)
	return args
}
