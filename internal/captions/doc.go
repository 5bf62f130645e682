// Package captions produces burn-in subtitle sidecars for a narration track:
// a transcript from an external transcriber CLI, chunked into timed cues, and
// written as SRT plus a styled ASS file for the ffmpeg subtitles filter.
// Caption production is a presentation enhancement; every failure here maps
// to ErrUnavailable and callers assemble the scene uncaptioned.
package captions
