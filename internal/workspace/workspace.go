// Package workspace manages the staging area: the single-instance lock,
// per-run scratch directories, stale-run cleanup, and publishing the finished
// video to its final location.
package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"github.com/indieNik/Automated-Product-Demo-Builder/internal/fileutil"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/logging"
)

const (
	lockFileName = "demobuilder.lock"
	runDirPrefix = "run-"
)

// Lock is a held single-instance lock on the staging directory.
type Lock struct {
	flock *flock.Flock
}

// Acquire takes the staging-directory lock without blocking. A second
// assembly against the same staging directory fails immediately instead of
// queueing behind the first.
func Acquire(stagingDir string) (*Lock, error) {
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}

	lock := flock.New(filepath.Join(stagingDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire staging lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another assembly is already running against %s", stagingDir)
	}
	return &Lock{flock: lock}, nil
}

// Release drops the lock. Safe to call on a nil Lock.
func (l *Lock) Release() error {
	if l == nil || l.flock == nil {
		return nil
	}
	return l.flock.Unlock()
}

// NewRunDir creates a scratch directory for one assembly run under the
// staging directory, named by the run ID so concurrent history rows and
// filesystem remnants correlate.
func NewRunDir(stagingDir, runID string) (string, error) {
	dir := filepath.Join(stagingDir, runDirPrefix+runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create run directory: %w", err)
	}
	return dir, nil
}

// Scrub removes a run directory and everything in it.
func Scrub(runDir string) error {
	if runDir == "" {
		return nil
	}
	if err := os.RemoveAll(runDir); err != nil {
		return fmt.Errorf("remove run directory: %w", err)
	}
	return nil
}

// CleanStale removes run directories older than maxAge, left behind by
// crashed or interrupted assemblies. Only directories carrying the run
// prefix are touched; anything else in staging is left alone.
func CleanStale(stagingDir string, maxAge time.Duration, logger *slog.Logger) (int, error) {
	log := logging.NewComponentLogger(logger, "workspace")

	entries, err := os.ReadDir(stagingDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("read staging directory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), runDirPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(stagingDir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			logging.WarnWithContext(log, "failed to remove stale run directory", "stale_cleanup_failed",
				logging.String("path", path),
				logging.Error(err),
			)
			continue
		}
		removed++
		log.Info("removed stale run directory", logging.Args(
			logging.String("path", path),
			logging.Duration("age", time.Since(info.ModTime())),
		)...)
	}
	return removed, nil
}

// PublishFile moves the finished video from staging to its final path.
// Rename is tried first; when staging and output sit on different
// filesystems the move degrades to a verified copy plus remove.
func PublishFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	var linkErr *os.LinkError
	if errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		if copyErr := fileutil.CopyFileVerified(src, dst); copyErr != nil {
			return fmt.Errorf("copy across filesystems: %w", copyErr)
		}
		if removeErr := os.Remove(src); removeErr != nil {
			return fmt.Errorf("remove staged file after copy: %w", removeErr)
		}
		return nil
	}
	return fmt.Errorf("publish %s: %w", dst, err)
}
