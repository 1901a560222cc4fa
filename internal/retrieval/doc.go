// Package retrieval downloads one storefront upload, opens it as a ZIP
// archive, and extracts the game jars it contains into a directory named
// after the upload identifier.
//
// Failures abort only the identifier being retrieved. Within a readable
// archive, an entry that cannot be extracted is logged and skipped.
package retrieval
