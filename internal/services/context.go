package services

import "context"

type contextKey string

const (
	runIDKey      contextKey = "run_id"
	downloadIDKey contextKey = "download_id"
)

// WithRunID annotates context with the per-invocation correlation identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithDownloadID annotates context with the storefront download identifier.
func WithDownloadID(ctx context.Context, id uint64) context.Context {
	return context.WithValue(ctx, downloadIDKey, id)
}

// DownloadIDFromContext extracts the download identifier if present.
func DownloadIDFromContext(ctx context.Context) (uint64, bool) {
	v := ctx.Value(downloadIDKey)
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case uint64:
		return val, true
	case int:
		if val < 0 {
			return 0, false
		}
		return uint64(val), true
	default:
		return 0, false
	}
}
