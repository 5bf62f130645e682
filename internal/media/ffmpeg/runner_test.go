package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestNewRunnerWithBinary(t *testing.T) {
	r := NewRunner(WithBinary("/opt/ffmpeg"))
	if r.Binary() != "/opt/ffmpeg" {
		t.Fatalf("expected binary override to be applied, got %q", r.Binary())
	}
}

func TestRunUsesInjectedCommandRunner(t *testing.T) {
	var captured []string
	r := NewRunner(WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		captured = append([]string{name}, args...)
		return nil
	}))

	if err := r.Run(context.Background(), []string{"-y", "-i", "in.mp4", "out.mp4"}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(captured) == 0 || captured[0] != "ffmpeg" {
		t.Fatalf("expected injected runner to receive binary name, got %v", captured)
	}
	if captured[len(captured)-1] != "out.mp4" {
		t.Fatalf("expected args to pass through, got %v", captured)
	}
}

func TestRunWrapsFailureAsCommandError(t *testing.T) {
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "FFMPEG_HELPER_MODE=fail")
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})

	r := NewRunner()
	err := r.Run(context.Background(), []string{"-i", "broken.webp", "out.mp4"})
	if err == nil {
		t.Fatal("expected error from failing command")
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *CommandError, got %T: %v", err, err)
	}
	if cmdErr.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", cmdErr.ExitCode)
	}
	if !strings.Contains(cmdErr.Stderr, "moov atom not found") {
		t.Fatalf("expected stderr tail in error, got %q", cmdErr.Stderr)
	}
	if !strings.Contains(cmdErr.Error(), "exited with code 3") {
		t.Fatalf("unexpected error text: %v", cmdErr)
	}
}

func TestRunSucceedsSilently(t *testing.T) {
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "FFMPEG_HELPER_MODE=success")
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})

	r := NewRunner()
	if err := r.Run(context.Background(), []string{"-version"}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}

func TestRunReportsMissingBinary(t *testing.T) {
	r := NewRunner(WithBinary("definitely-not-ffmpeg-on-path"))
	err := r.Run(context.Background(), []string{"-version"})
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		t.Fatalf("missing binary must not classify as CommandError: %v", err)
	}
}

func TestStderrTailKeepsLastLines(t *testing.T) {
	var sb strings.Builder
	for i := 1; i <= 20; i++ {
		fmt.Fprintf(&sb, "line %d\n", i)
	}
	tail := stderrTail(sb.String(), 3)
	if tail != "line 18\nline 19\nline 20" {
		t.Fatalf("unexpected tail: %q", tail)
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	switch os.Getenv("FFMPEG_HELPER_MODE") {
	case "fail":
		fmt.Fprintln(os.Stderr, "[mov,mp4,m4a] moov atom not found")
		fmt.Fprintln(os.Stderr, "broken.webp: Invalid data found when processing input")
		os.Exit(3)
	default:
		os.Exit(0)
	}
}
