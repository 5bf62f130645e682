package pipeline

import (
	"fmt"
	"strings"
)

// SceneStatus tracks a scene through the assembly stages.
type SceneStatus string

const (
	StatusPending       SceneStatus = "pending"
	StatusLocating      SceneStatus = "locating"
	StatusNormalizing   SceneStatus = "normalizing"
	StatusSynchronizing SceneStatus = "synchronizing"
	StatusDone          SceneStatus = "done"
	StatusSkipped       SceneStatus = "skipped"
	StatusFailed        SceneStatus = "failed"
)

var allSceneStatuses = []SceneStatus{
	StatusPending,
	StatusLocating,
	StatusNormalizing,
	StatusSynchronizing,
	StatusDone,
	StatusSkipped,
	StatusFailed,
}

var sceneStatusSet = func() map[SceneStatus]struct{} {
	set := make(map[SceneStatus]struct{}, len(allSceneStatuses))
	for _, status := range allSceneStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// ParseSceneStatus validates and canonicalizes a status string.
func ParseSceneStatus(value string) (SceneStatus, error) {
	status := SceneStatus(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := sceneStatusSet[status]; !ok {
		return "", fmt.Errorf("unknown scene status %q", value)
	}
	return status, nil
}

// Terminal reports whether the status is an end state.
func (s SceneStatus) Terminal() bool {
	return s == StatusDone || s == StatusSkipped || s == StatusFailed
}
