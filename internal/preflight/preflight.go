package preflight

import (
	"context"
	"path/filepath"

	"github.com/indieNik/Automated-Product-Demo-Builder/internal/config"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Failed reports whether any non-optional check in results did not pass.
func Failed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return true
		}
	}
	return false
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	for _, status := range deps.CheckBinaries(deps.Requirements(cfg)) {
		result := Result{Name: status.Name, Passed: status.Available, Detail: status.Detail}
		if status.Available {
			result.Detail = status.Command
		}
		results = append(results, result)
	}

	// Asset directories need read access only.
	results = append(results,
		CheckReadableDirectory("Recordings directory", cfg.Paths.RecordingsDir),
		CheckReadableDirectory("Scenes directory", cfg.Paths.ScenesDir),
		CheckReadableDirectory("Voiceover directory", cfg.Paths.VoiceoverDir),
		CheckWritableDirectory("Staging directory", cfg.Paths.StagingDir),
		CheckWritableDirectory("Output directory", filepath.Dir(cfg.Paths.OutputFile)),
	)

	if cfg.Music.Enabled {
		// Advisory only: a missing bed skips the mix at run time, so it
		// must not refuse the run.
		check := CheckReadableFile("Music file", cfg.Music.File)
		if !check.Passed {
			check.Passed = true
			check.Detail += "; music mix will be skipped"
		}
		results = append(results, check)
	}
	if cfg.History.Enabled {
		results = append(results, CheckWritableDirectory("History directory", filepath.Dir(cfg.History.Path)))
	}

	return results
}
