// Package digest models SHA-256 content digests as fixed 32-byte values with
// a strict lower-case hexadecimal text form, and provides the read-only set
// used to look up digests recorded in the archive manifest.
package digest
