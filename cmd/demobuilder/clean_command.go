package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/indieNik/Automated-Product-Demo-Builder/internal/workspace"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var staleAge time.Duration

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove stale run directories from staging",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			removed, err := workspace.CleanStale(cfg.Paths.StagingDir, staleAge, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d stale run directories from %s\n", removed, cfg.Paths.StagingDir)
			return nil
		},
	}

	cmd.Flags().DurationVar(&staleAge, "stale", staleRunAge, "Age past which a run directory counts as stale")
	return cmd
}
