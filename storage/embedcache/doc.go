// Package embedcache caches embedding vectors between ingestion runs.
//
// Entries are keyed by embedding model name and BLAKE2b content hash of
// the chunk text, so an edit to one section re-embeds only that section
// and a model switch never serves stale vectors.
package embedcache
