package captions

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Transcriber converts a narration audio file into plain transcript text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// CLITranscriber shells out to a configured transcription command. The
// command receives the audio path as its final argument and is expected to
// print the transcript on stdout.
type CLITranscriber struct {
	command      string
	args         []string
	timeout      time.Duration
	outputRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewCLITranscriber builds a transcriber for the given command line.
func NewCLITranscriber(command string, args []string, timeout time.Duration) *CLITranscriber {
	return &CLITranscriber{
		command: strings.TrimSpace(command),
		args:    append([]string(nil), args...),
		timeout: timeout,
	}
}

// WithOutputRunner sets a custom command runner (for testing).
func (c *CLITranscriber) WithOutputRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	c.outputRunner = runner
}

// Transcribe runs the transcription command against one audio file.
func (c *CLITranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if c.command == "" {
		return "", errors.New("transcriber command not configured")
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := append(append([]string(nil), c.args...), audioPath)
	output, err := c.runOutput(ctx, c.command, args...)
	if err != nil {
		return "", fmt.Errorf("transcribe %s: %w", audioPath, err)
	}

	text := strings.TrimSpace(string(output))
	if text == "" {
		return "", fmt.Errorf("transcribe %s: empty transcript", audioPath)
	}
	return text, nil
}

func (c *CLITranscriber) runOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	if c.outputRunner != nil {
		return c.outputRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return output, nil
}
