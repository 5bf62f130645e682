package pipeline

import (
	"fmt"
	"time"

	"github.com/indieNik/Automated-Product-Demo-Builder/internal/storyline"
)

// SceneResult records the outcome of one scene.
type SceneResult struct {
	Scene      storyline.Scene
	Status     SceneStatus
	SkipReason string
	Source     string
	Strategy   string
	Segment    string
	Captioned  bool
	Elapsed    time.Duration
	Err        error
}

// Report is the outcome of one assembly run.
type Report struct {
	RunID    string
	Output   string
	Started  time.Time
	Finished time.Time
	Scenes   []SceneResult
}

// Duration returns the wall-clock time of the run.
func (r *Report) Duration() time.Duration {
	if r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}

// Assembled counts scenes that produced a segment.
func (r *Report) Assembled() int { return r.count(StatusDone) }

// Skipped counts scenes dropped for missing or unusable assets.
func (r *Report) Skipped() int { return r.count(StatusSkipped) }

// Failed counts scenes that errored mid-assembly.
func (r *Report) Failed() int { return r.count(StatusFailed) }

func (r *Report) count(status SceneStatus) int {
	n := 0
	for _, scene := range r.Scenes {
		if scene.Status == status {
			n++
		}
	}
	return n
}

// Summary returns a one-line human description of the run.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d assembled, %d skipped, %d failed of %d scenes in %s",
		r.Assembled(), r.Skipped(), r.Failed(), len(r.Scenes), r.Duration().Round(time.Second))
}
