package main

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"reachwatch/internal/logging"
	"reachwatch/internal/manifest"
)

func newManifestCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "List the versions recorded in the archive manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			client, err := ctx.storefrontClient()
			if err != nil {
				return err
			}

			fetcher := manifest.NewFetcher(client, cfg.Manifest.URL, cmd.ErrOrStderr(), logger)
			doc, err := fetcher.FetchManifest(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), doc)
			}

			out := cmd.OutOrStdout()
			channels := make([][]string, 0, len(doc.Latest))
			for _, name := range doc.Channels() {
				channels = append(channels, []string{name, doc.Latest[name]})
			}
			writeTable(out, []string{"Channel", "Latest"}, channels, nil)

			rows := make([][]string, 0, len(doc.Versions))
			for _, v := range doc.Versions {
				rows = append(rows, []string{
					v.ID,
					v.Kind,
					time.Unix(int64(v.ReleaseTime), 0).UTC().Format(time.RFC3339),
					v.SHA256.String(),
					strconv.FormatUint(v.Size, 10),
				})
			}
			writeTable(out,
				[]string{"ID", "Type", "Released", "SHA-256", "Size"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			)
			logger.Debug("manifest listed", logging.Int("versions", len(doc.Versions)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
