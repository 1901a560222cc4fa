// Package main hosts the reachwatch CLI entrypoint and command graph.
//
// The root command runs one check: it prints, one per line on stdout, the
// path of every freshly extracted Cosmic Reach jar whose digest the archive
// manifest does not list yet. Everything else goes to stderr. Subcommands
// expose the individual stages (storefront listing, manifest listing, file
// hashing) and readiness checks for troubleshooting.
package main
