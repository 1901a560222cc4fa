// Package textutil normalizes names taken from untrusted archives.
//
// SanitizeEntryName turns a ZIP entry name into a clean relative slash path,
// or reports that nothing usable remains. HasPrefixAndExt matches the base
// name of an entry against the game jar naming convention.
package textutil
