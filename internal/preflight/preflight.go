package preflight

import (
	"context"

	"reachwatch/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all preflight checks for the given config. A nil client
// falls back to a plain http.Client with a short timeout.
func RunAll(ctx context.Context, cfg *config.Config, client HTTPDoer) []Result {
	if cfg == nil {
		return nil
	}

	return []Result{
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
		CheckLock("Work directory lock", cfg.LockPath()),
		CheckCSRFToken(cfg.Storefront.CSRFToken),
		CheckEndpoint(ctx, "Archive manifest", client, cfg.Manifest.URL),
		CheckEndpoint(ctx, "Storefront game page", client, cfg.Storefront.GameURL),
	}
}
