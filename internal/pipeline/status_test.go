package pipeline

import "testing"

func TestParseSceneStatus(t *testing.T) {
	status, err := ParseSceneStatus("  Skipped ")
	if err != nil || status != StatusSkipped {
		t.Fatalf("ParseSceneStatus = %v, %v", status, err)
	}
	if _, err := ParseSceneStatus("exploded"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestTerminalStatuses(t *testing.T) {
	for _, status := range []SceneStatus{StatusDone, StatusSkipped, StatusFailed} {
		if !status.Terminal() {
			t.Errorf("%s should be terminal", status)
		}
	}
	for _, status := range []SceneStatus{StatusPending, StatusLocating, StatusNormalizing, StatusSynchronizing} {
		if status.Terminal() {
			t.Errorf("%s should not be terminal", status)
		}
	}
}
