package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/indieNik/Automated-Product-Demo-Builder/internal/history"
	"github.com/indieNik/Automated-Product-Demo-Builder/internal/pipeline"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "Show past assembly runs",
		Long:  "Without arguments, lists recent runs. With a run ID, shows that run's per-scene outcomes.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return fmt.Errorf("run history is disabled; enable the [history] section in the config")
			}

			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				var filter pipeline.SceneStatus
				if strings.TrimSpace(statusFilter) != "" {
					filter, err = pipeline.ParseSceneStatus(statusFilter)
					if err != nil {
						return err
					}
				}

				scenes, err := store.ListScenes(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if len(scenes) == 0 {
					fmt.Fprintf(out, "No scenes recorded for run %s\n", args[0])
					return nil
				}

				rows := make([][]string, 0, len(scenes))
				for _, scene := range scenes {
					if filter != "" && scene.Status != string(filter) {
						continue
					}
					detail := scene.SkipReason
					if detail == "" {
						detail = scene.SegmentPath
					}
					rows = append(rows, []string{
						fmt.Sprintf("%d", scene.SceneIndex),
						scene.Role,
						scene.Status,
						scene.Elapsed.Round(time.Millisecond).String(),
						truncate(detail, 60),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Scene", "Role", "Status", "Elapsed", "Detail"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			}

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				duration := ""
				if !run.FinishedAt.IsZero() {
					duration = run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
				}
				detail := run.OutputPath
				if run.ErrorMessage != "" {
					detail = run.ErrorMessage
				}
				rows = append(rows, []string{
					run.ID,
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					run.Status,
					fmt.Sprintf("%d/%d", run.ScenesAssembled, run.ScenesTotal),
					duration,
					truncate(detail, 50),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Started", "Status", "Scenes", "Duration", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list")
	cmd.Flags().StringVar(&statusFilter, "status", "", "Filter scene rows by status (done, skipped, failed, ...)")
	return cmd
}
