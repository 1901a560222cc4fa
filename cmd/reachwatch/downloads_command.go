package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"reachwatch/internal/config"
	"reachwatch/internal/discovery"
	"reachwatch/internal/itch"
)

type downloadView struct {
	ID        uint64   `json:"id"`
	Title     string   `json:"title"`
	Size      string   `json:"size,omitempty"`
	Platforms []string `json:"platforms"`
	Candidate bool     `json:"candidate"`
}

func newDownloadsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "downloads",
		Short: "List the downloads on the storefront game page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.storefrontClient()
			if err != nil {
				return err
			}
			page, err := client.GetGamePage(cmd.Context(), cfg.Storefront.GameURL)
			if err != nil {
				return err
			}

			candidates := candidateSet(cfg.Selection, page.Downloads)
			views := make([]downloadView, 0, len(page.Downloads))
			for _, d := range page.Downloads {
				platforms := make([]string, 0, len(d.Platforms))
				for _, p := range d.Platforms.Sorted() {
					platforms = append(platforms, string(p))
				}
				_, candidate := candidates[d.ID]
				views = append(views, downloadView{
					ID:        d.ID,
					Title:     d.Title,
					Size:      d.Size,
					Platforms: platforms,
					Candidate: candidate && d.ID != 0,
				})
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), views)
			}

			rows := make([][]string, 0, len(views))
			for _, v := range views {
				id := "-"
				if v.ID != 0 {
					id = strconv.FormatUint(v.ID, 10)
				}
				labels := make([]string, 0, len(v.Platforms))
				for _, p := range v.Platforms {
					labels = append(labels, platformLabel(itch.Platform(p)))
				}
				rows = append(rows, []string{id, v.Title, v.Size, strings.Join(labels, ", "), yesNo(v.Candidate)})
			}
			writeTable(cmd.OutOrStdout(),
				[]string{"ID", "Title", "Size", "Platforms", "Candidate"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft},
			)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// candidateSet applies the configured selection policy. A title policy that
// matches zero or several downloads yields no candidates.
func candidateSet(sel config.Selection, downloads []itch.Download) map[uint64]struct{} {
	ids, err := discovery.PolicyFor(sel).Select(downloads)
	if err != nil {
		return nil
	}
	set := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

var titleCaser = cases.Title(language.English)

func platformLabel(p itch.Platform) string {
	if p == itch.PlatformMacOS {
		return "macOS"
	}
	return titleCaser.String(string(p))
}
