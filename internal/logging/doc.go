// Package logging assembles structured slog loggers and formatting helpers used
// across reachwatch.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so retrieval code can automatically tag log
// lines with the run ID and the download being processed. Output goes to stderr
// by default because stdout is reserved for the list of fresh artifact paths.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same shape.
package logging
