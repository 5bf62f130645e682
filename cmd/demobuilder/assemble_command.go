package main

import (
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/indieNik/Automated-Product-Demo-Builder/internal/history"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/pipeline"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/preflight"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/storyline"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/workspace"
)

const staleRunAge = 24 * time.Hour

func newAssembleCommand(ctx *commandContext) *cobra.Command {
	var (
		recordingsDir string
		scenesDir     string
		voiceoverDir  string
		outputFile    string
		manifestPath  string
		withCaptions  bool
		musicFile     string
	)

	cmd := &cobra.Command{
		Use:   "assemble",
		Short: "Assemble the demo video from scene assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if recordingsDir != "" {
				cfg.Paths.RecordingsDir = recordingsDir
			}
			if scenesDir != "" {
				cfg.Paths.ScenesDir = scenesDir
			}
			if voiceoverDir != "" {
				cfg.Paths.VoiceoverDir = voiceoverDir
			}
			if outputFile != "" {
				cfg.Paths.OutputFile = outputFile
			}
			if cmd.Flags().Changed("captions") {
				cfg.Captions.Enabled = withCaptions
			}
			if musicFile != "" {
				cfg.Music.Enabled = true
				cfg.Music.File = musicFile
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			plan := storyline.DefaultPlan()
			if manifestPath != "" {
				plan, err = storyline.LoadManifest(manifestPath)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()

			colorize := shouldColorize(out)

			checks := preflight.RunAll(cmd.Context(), cfg)
			if preflight.Failed(checks) {
				fmt.Fprintln(out, renderPreflight(checks, colorize))
				return errors.New("preflight checks failed; fix the issues above and retry")
			}

			lock, err := workspace.Acquire(cfg.Paths.StagingDir)
			if err != nil {
				return err
			}
			defer lock.Release()

			if _, err := workspace.CleanStale(cfg.Paths.StagingDir, staleRunAge, logger); err != nil {
				return err
			}

			var store *history.Store
			if cfg.History.Enabled {
				store, err = history.Open(cfg.History.Path)
				if err != nil {
					return err
				}
				defer store.Close()
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			driver := pipeline.NewDriver(cfg, plan, pipeline.NewDeps(cfg, store, logger), logger)
			report, runErr := driver.Run(runCtx)

			if report != nil && len(report.Scenes) > 0 {
				fmt.Fprintln(out, renderReport(report, colorize))
			}
			if runErr != nil {
				return runErr
			}
			fmt.Fprintf(out, "Demo written to %s (%s)\n", report.Output, report.Summary())
			return nil
		},
	}

	cmd.Flags().StringVar(&recordingsDir, "recordings-dir", "", "Override the screen recordings directory")
	cmd.Flags().StringVar(&scenesDir, "scenes-dir", "", "Override the generated stills directory")
	cmd.Flags().StringVar(&voiceoverDir, "voiceover-dir", "", "Override the narration audio directory")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Override the final video path")
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "Scene manifest overriding the default five-scene plan")
	cmd.Flags().BoolVar(&withCaptions, "captions", false, "Toggle caption burn-in for this run")
	cmd.Flags().StringVar(&musicFile, "music", "", "Background music file to mix under the narration")
	return cmd
}

func renderPreflight(checks []preflight.Result, colorize bool) string {
	rows := make([][]string, 0, len(checks))
	for _, check := range checks {
		status := colorizeStatus("ok", statusOK, colorize)
		if !check.Passed {
			status = colorizeStatus("FAIL", statusError, colorize)
		}
		rows = append(rows, []string{check.Name, status, check.Detail})
	}
	return renderTable([]string{"Check", "Status", "Detail"}, rows, nil)
}

func renderReport(report *pipeline.Report, colorize bool) string {
	rows := make([][]string, 0, len(report.Scenes))
	for _, scene := range report.Scenes {
		detail := ""
		switch {
		case scene.SkipReason != "":
			detail = scene.SkipReason
		case scene.Err != nil:
			detail = scene.Err.Error()
		case scene.Strategy != "":
			detail = scene.Strategy
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", scene.Scene.Index),
			scene.Scene.Role.Title(),
			colorizeStatus(string(scene.Status), sceneStatusKind(scene.Status), colorize),
			yesNo(scene.Captioned),
			scene.Elapsed.Round(time.Millisecond).String(),
			truncate(detail, 60),
		})
	}
	return renderTable(
		[]string{"Scene", "Role", "Status", "Captions", "Elapsed", "Detail"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	)
}

func sceneStatusKind(status pipeline.SceneStatus) statusKind {
	switch status {
	case pipeline.StatusDone:
		return statusOK
	case pipeline.StatusSkipped:
		return statusWarn
	case pipeline.StatusFailed:
		return statusError
	default:
		return statusNeutral
	}
}

func truncate(value string, max int) string {
	value = strings.TrimSpace(value)
	if len(value) <= max {
		return value
	}
	return value[:max-3] + "..."
}
