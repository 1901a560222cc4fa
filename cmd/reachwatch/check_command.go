package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reachwatch/internal/logging"
	"reachwatch/internal/metrics"
	"reachwatch/internal/pipeline"
	"reachwatch/internal/runlock"
)

// runCheck runs the pipeline and prints fresh jar paths on stdout.
func runCheck(cmd *cobra.Command, ctx *commandContext) error {
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

	if strings.TrimSpace(cfg.Storefront.CSRFToken) == "" {
		logging.WarnWithContext(logger, "CSRF_TOKEN is empty", "csrf_token_missing",
			logging.String(logging.FieldErrorHint, "export CSRF_TOKEN or set storefront.csrf_token"),
			logging.String(logging.FieldImpact, "download link resolution will likely be refused"),
		)
	}

	lock := runlock.New(cfg.LockPath())
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("lock release failed", logging.Error(err))
		}
	}()

	var recorder metrics.Recorder = metrics.Noop{}
	var prom *metrics.Prom
	if cfg.Metrics.Textfile != "" {
		prom = metrics.NewProm()
		recorder = prom
	}

	orchestrator := pipeline.Build(cfg, client, cmd.ErrOrStderr(), recorder, logger)
	result, runErr := orchestrator.Run(cmd.Context())

	out := cmd.OutOrStdout()
	if result != nil {
		for _, path := range result.Fresh {
			fmt.Fprintln(out, path)
		}
	}

	if prom != nil {
		if err := prom.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logging.WarnWithContext(logger, "metrics textfile not written", "metrics_write_failed",
				logging.String(logging.FieldPath, cfg.Metrics.Textfile),
				logging.Error(err),
			)
		}
	}
	return runErr
}
