// Package ffmpeg executes the ffmpeg binary with argument lists produced by
// the normalizer, synchronizer, and concatenator. The Runner captures stderr,
// which ffmpeg uses for diagnostics, and surfaces the tail of it in errors so
// a failed encode can be understood from a log line.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/indieNik/Automated-Product-Demo-Builder/internal/logging"
)

var commandContext = exec.CommandContext

const stderrTailLines = 12

// CommandError describes an ffmpeg invocation that started and then failed.
type CommandError struct {
	Binary   string
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	if strings.TrimSpace(e.Stderr) == "" {
		return fmt.Sprintf("%s exited with code %d", e.Binary, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Binary, e.ExitCode, e.Stderr)
}

// Runner invokes ffmpeg. The zero value is not usable; construct with NewRunner.
type Runner struct {
	binary        string
	logger        *slog.Logger
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// Option customizes a Runner.
type Option func(*Runner)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(r *Runner) {
		if strings.TrimSpace(binary) != "" {
			r.binary = binary
		}
	}
}

// WithLogger attaches a logger used for debug-level command tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logging.NewComponentLogger(logger, "ffmpeg")
		}
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) Option {
	return func(r *Runner) {
		r.commandRunner = runner
	}
}

// NewRunner builds a Runner with the provided options applied.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		binary: "ffmpeg",
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Binary returns the executable the runner invokes.
func (r *Runner) Binary() string {
	return r.binary
}

// Run executes ffmpeg with the given arguments. Failures after process start
// are returned as *CommandError so callers can distinguish a failed encode
// from a missing binary or a canceled context.
func (r *Runner) Run(ctx context.Context, args []string) error {
	if r.commandRunner != nil {
		return r.commandRunner(ctx, r.binary, args...)
	}

	r.logger.Debug("running ffmpeg", logging.Args(
		logging.String("binary", r.binary),
		logging.String("args", strings.Join(args, " ")),
	)...)

	cmd := commandContext(ctx, r.binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%s: %w", r.binary, ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &CommandError{
			Binary:   r.binary,
			Args:     append([]string(nil), args...),
			ExitCode: exitErr.ExitCode(),
			Stderr:   stderrTail(stderr.String(), stderrTailLines),
		}
	}
	return fmt.Errorf("start %s: %w", r.binary, err)
}

// stderrTail keeps the last n non-empty lines of ffmpeg's diagnostics.
func stderrTail(output string, n int) string {
	lines := strings.Split(strings.ReplaceAll(output, "\r", "\n"), "\n")
	kept := make([]string, 0, n)
	for i := len(lines) - 1; i >= 0 && len(kept) < n; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		kept = append(kept, line)
	}
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return strings.Join(kept, "\n")
}
