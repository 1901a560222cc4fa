package main

import (
	"errors"

	"github.com/spf13/cobra"

	"reachwatch/internal/itch"
	"reachwatch/internal/preflight"
)

func newPreflightCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Check the work directory, CSRF token and endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg, itch.NewHTTPClient(cfg.RequestTimeout()))
			rows := make([][]string, 0, len(results))
			failed := false
			for _, r := range results {
				status := "OK"
				if !r.Passed {
					status = "FAIL"
					failed = true
				}
				rows = append(rows, []string{r.Name, status, r.Detail})
			}
			writeTable(cmd.OutOrStdout(), []string{"Check", "Status", "Detail"}, rows, nil)
			if failed {
				return errors.New("preflight checks failed")
			}
			return nil
		},
	}
}
