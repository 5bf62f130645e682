// Package assets locates the per-scene input files produced by upstream
// collaborators: screen recordings, generated stills, and narration audio.
// Resolution is a pure filesystem read; nothing here writes or mutates assets.
package assets
