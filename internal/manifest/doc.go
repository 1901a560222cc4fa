// Package manifest fetches and parses the CosmicArchive versions manifest.
//
// Parsing is strict: every documented field of every version record must be
// present and well typed, so schema drift upstream fails loudly instead of
// silently shrinking the digest set. Unknown fields are ignored.
package manifest
