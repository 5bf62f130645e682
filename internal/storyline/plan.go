package storyline

import (
	"fmt"
	"strings"
)

// Scene describes one entry in the assembly plan. Values are resolved once,
// before the pipeline starts; the engine never reads scene structure from the
// environment.
type Scene struct {
	// Index is the 1-based position in the timeline.
	Index int
	// Role determines which asset conventions apply.
	Role Role
	// Slug is a short name used for staging filenames and logs.
	Slug string
	// NarrationFile is the exact filename expected under the voiceover dir.
	NarrationFile string
	// StillFile is the canonical image filename for still roles.
	StillFile string
	// RecordingExtensions are the candidate extensions globbed for motion roles.
	RecordingExtensions []string
	// HoldSeconds extends a still clip beyond its narration for breathing room.
	HoldSeconds float64
}

// Label returns the human form used in logs and the summary table.
func (s Scene) Label() string {
	return fmt.Sprintf("Scene %d: %s", s.Index, s.Role.Title())
}

// Plan is an ordered list of scenes.
type Plan []Scene

const (
	hookStillFile        = "hook_scene.png"
	techSummaryStillFile = "tech_wrapup_scene.png"

	hookHoldSeconds        = 1.0
	techSummaryHoldSeconds = 2.0
)

// sceneDefaults returns the template values for a role at a given index.
func sceneDefaults(role Role, index int) Scene {
	scene := Scene{
		Index: index,
		Role:  role,
		Slug:  string(role),
	}
	switch role {
	case RoleHook:
		scene.StillFile = hookStillFile
		scene.NarrationFile = fmt.Sprintf("scene_%d_vo.mp3", index)
		scene.HoldSeconds = hookHoldSeconds
	case RoleWalkthrough:
		scene.RecordingExtensions = []string{"mp4", "webm", "webp"}
		scene.NarrationFile = fmt.Sprintf("scene_%d_vo.mp3", index)
	case RoleDemo:
		scene.RecordingExtensions = []string{"mp4", "mov", "webm", "webp"}
		scene.NarrationFile = fmt.Sprintf("scene_%d_vo.mp3", index)
	case RoleResults:
		scene.RecordingExtensions = []string{"mp4", "webp", "png"}
		scene.NarrationFile = fmt.Sprintf("scene_%d_vo.mp3", index)
	case RoleTechSummary:
		scene.StillFile = techSummaryStillFile
		scene.NarrationFile = fmt.Sprintf("scene_%d_tech_vo.mp3", index)
		scene.HoldSeconds = techSummaryHoldSeconds
	}
	return scene
}

// DefaultPlan returns the fixed five-scene demo template: hook, walkthrough,
// demo, results, tech summary.
func DefaultPlan() Plan {
	plan := make(Plan, 0, len(allRoles))
	for i, role := range allRoles {
		plan = append(plan, sceneDefaults(role, i+1))
	}
	return plan
}

// Validate checks plan shape: contiguous 1-based indices, known roles, and
// per-role asset conventions present.
func (p Plan) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("plan has no scenes")
	}
	for i, scene := range p {
		if scene.Index != i+1 {
			return fmt.Errorf("scene %d: index %d out of order (want %d)", i+1, scene.Index, i+1)
		}
		if !scene.Role.Valid() {
			return fmt.Errorf("scene %d: unknown role %q", scene.Index, scene.Role)
		}
		if strings.TrimSpace(scene.NarrationFile) == "" {
			return fmt.Errorf("scene %d: narration file not set", scene.Index)
		}
		if scene.HoldSeconds < 0 {
			return fmt.Errorf("scene %d: hold seconds must not be negative", scene.Index)
		}
		if scene.Role.Still() {
			if strings.TrimSpace(scene.StillFile) == "" {
				return fmt.Errorf("scene %d: still role %q requires a still file", scene.Index, scene.Role)
			}
		} else if len(scene.RecordingExtensions) == 0 {
			return fmt.Errorf("scene %d: motion role %q requires candidate extensions", scene.Index, scene.Role)
		}
	}
	return nil
}
