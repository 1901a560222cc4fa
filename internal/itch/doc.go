// Package itch is a minimal client for the itch.io storefront.
//
// It scrapes a game page for its download list (upload IDs, titles, platform
// tags) and resolves the short-lived CDN URL of a download through the
// CSRF-guarded file endpoint. Only the pieces reachwatch needs are
// implemented; it is not a general itch.io API client.
package itch
