// Package preflight provides readiness checks for the endpoints and
// filesystem paths a check run depends on.
//
// The CLI "reachwatch preflight" command runs every check and renders the
// results; the root command does not call RunAll, because a failing run
// already reports its own cause.
package preflight
