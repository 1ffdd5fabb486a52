// Package assets implements the asset retrieval agent: fuzzy search over the
// product image bucket, loading matches into the artifact store and publishing
// finished artifacts behind time-limited signed URLs.
package assets
