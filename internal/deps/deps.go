// Package deps reports availability of the external binaries the assembly
// pipeline shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/indieNik/Automated-Product-Demo-Builder/internal/config"
)

// Requirement defines an external dependency demobuilder relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the external binaries the given configuration needs.
// The transcriber is only required when captions are enabled.
func Requirements(cfg *config.Config) []Requirement {
	requirements := []Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required for normalizing, synchronizing, and concatenating segments",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Required for measuring clip and narration durations",
		},
	}
	if cfg.Captions.Enabled {
		requirements = append(requirements, Requirement{
			Name:        "Transcriber",
			Command:     cfg.Captions.Transcriber,
			Description: "Required for caption transcription when captions are enabled",
		})
	}
	return requirements
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
