package logging

import (
	"context"
	"log/slog"

	"reachwatch/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized key for the per-invocation correlation identifier.
	FieldRunID = "run_id"
	// FieldDownloadID is the standardized key for storefront download identifiers.
	FieldDownloadID = "download_id"
	// FieldEntryIndex is the standardized key for the index of an archive entry.
	FieldEntryIndex = "entry_index"
	// FieldPath is the standardized key for filesystem paths.
	FieldPath = "path"
	// FieldURL is the standardized key for request URLs.
	FieldURL = "url"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests a next step to the operator.
	FieldErrorHint = "error_hint"
	// FieldErrorKind carries the error classification (network, parse, archive, ...).
	FieldErrorKind = "error_kind"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert = "alert"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if id, ok := services.DownloadIDFromContext(ctx); ok {
		fields = append(fields, slog.Uint64(FieldDownloadID, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
