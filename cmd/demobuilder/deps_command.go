package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/indieNik/Automated-Product-Demo-Builder/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of external binaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			colorize := shouldColorize(cmd.OutOrStdout())

			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			rows := make([][]string, 0, len(statuses))
			missing := false
			for _, status := range statuses {
				state := colorizeStatus("ok", statusOK, colorize)
				if !status.Available {
					state = colorizeStatus("MISSING", statusError, colorize)
					if !status.Optional {
						missing = true
					}
				}
				detail := status.Detail
				if detail == "" {
					detail = status.Command
				}
				rows = append(rows, []string{status.Name, state, detail, status.Description})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Dependency", "Status", "Detail", "Purpose"}, rows, nil))

			if missing {
				return errors.New("required binaries are missing")
			}
			return nil
		},
	}
}
