package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reachwatch/internal/compare"
	"reachwatch/internal/digest"
	"reachwatch/internal/logging"
	"reachwatch/internal/manifest"
)

func newHashCommand(ctx *commandContext) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "hash <file>...",
		Short: "Print SHA-256 digests and whether the archive already has them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}

			var archived digest.Set
			if !offline {
				client, err := ctx.storefrontClient()
				if err != nil {
					return err
				}
				fetcher := manifest.NewFetcher(client, cfg.Manifest.URL, cmd.ErrOrStderr(), logger)
				if archived, err = fetcher.Fetch(cmd.Context()); err != nil {
					return err
				}
			}

			comparator := compare.New(logger)
			out := cmd.OutOrStdout()
			var failed int
			for _, path := range args {
				d, err := comparator.Digest(path)
				if err != nil {
					failed++
					logger.Error("hash failed", logging.String(logging.FieldPath, path), logging.Error(err))
					continue
				}
				if offline {
					fmt.Fprintf(out, "%s  %s\n", d, path)
					continue
				}
				state := "fresh"
				if archived.Contains(d) {
					state = "archived"
				}
				fmt.Fprintf(out, "%s  %s  %s\n", d, path, state)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be hashed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the manifest lookup and only print digests")
	return cmd
}
