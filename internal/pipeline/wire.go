package pipeline

import (
	"io"
	"log/slog"

	"reachwatch/internal/compare"
	"reachwatch/internal/config"
	"reachwatch/internal/discovery"
	"reachwatch/internal/itch"
	"reachwatch/internal/manifest"
	"reachwatch/internal/metrics"
	retrievalpkg "reachwatch/internal/retrieval"
)

// Build assembles an Orchestrator from configuration. Manifest bodies that
// fail to parse are copied to diag.
func Build(cfg *config.Config, client *itch.Client, diag io.Writer, recorder metrics.Recorder, logger *slog.Logger) *Orchestrator {
	return New(
		manifest.NewFetcher(client, cfg.Manifest.URL, diag, logger),
		discovery.New(client, cfg.Storefront.GameURL, discovery.PolicyFor(cfg.Selection), logger),
		retrievalpkg.New(client, retrievalpkg.OptionsFromConfig(cfg), logger),
		compare.New(logger),
		Options{
			SingleArtifact: cfg.TitleMode(),
			Metrics:        recorder,
			Logger:         logger,
		},
	)
}
