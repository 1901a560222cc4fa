// Package pipeline drives a single check run.
//
// The manifest fetch and storefront discovery run concurrently and must both
// succeed. Each discovered download is then retrieved on its own goroutine;
// a failed retrieval is logged and never affects its peers. Extracted jars are
// hashed as their retrieval finishes, and the paths whose digest is missing
// from the manifest are returned in discovery order.
package pipeline
