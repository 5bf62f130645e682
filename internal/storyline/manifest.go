package storyline

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type manifestDoc struct {
	Scenes []manifestScene `yaml:"scenes"`
}

type manifestScene struct {
	Index       int      `yaml:"index"`
	Role        string   `yaml:"role"`
	Slug        string   `yaml:"slug"`
	Narration   string   `yaml:"narration"`
	Still       string   `yaml:"still"`
	Extensions  []string `yaml:"extensions"`
	HoldSeconds *float64 `yaml:"hold_seconds"`
}

// LoadManifest reads a scene manifest written by the storyline collaborator
// and resolves it into a validated plan. Fields left out of a manifest entry
// fall back to the role's template defaults; roles outside the closed set are
// rejected.
func LoadManifest(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var doc manifestDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if len(doc.Scenes) == 0 {
		return nil, fmt.Errorf("manifest %s declares no scenes", path)
	}

	plan := make(Plan, 0, len(doc.Scenes))
	for i, entry := range doc.Scenes {
		role, err := ParseRole(entry.Role)
		if err != nil {
			return nil, fmt.Errorf("manifest scene %d: %w", i+1, err)
		}

		index := entry.Index
		if index == 0 {
			index = i + 1
		}

		scene := sceneDefaults(role, index)
		if slug := strings.TrimSpace(entry.Slug); slug != "" {
			scene.Slug = slug
		}
		if narration := strings.TrimSpace(entry.Narration); narration != "" {
			scene.NarrationFile = narration
		}
		if still := strings.TrimSpace(entry.Still); still != "" {
			scene.StillFile = still
		}
		if len(entry.Extensions) > 0 {
			exts := make([]string, 0, len(entry.Extensions))
			for _, ext := range entry.Extensions {
				ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
				if ext != "" {
					exts = append(exts, ext)
				}
			}
			scene.RecordingExtensions = exts
		}
		if entry.HoldSeconds != nil {
			scene.HoldSeconds = *entry.HoldSeconds
		}
		plan = append(plan, scene)
	}

	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return plan, nil
}
