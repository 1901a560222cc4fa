// Package services defines shared utilities consumed by the pipeline
// components and the storefront integration.
//
// Key responsibilities:
//   - Context helpers that stamp the run ID and download ID for logging.
//   - Structured error markers plus the Wrap helper so every failure carries
//     its kind (network, parse, archive, filesystem, programmer) through
//     errors.Is.
//
// Use these helpers when wiring new components so error classification and
// observability stay uniform across the pipeline.
package services
