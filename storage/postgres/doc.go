// Package postgres implements the storage interfaces on PostgreSQL.
//
// Chunk vectors live in a pgvector column; similarity is cosine, reported
// as score = 1 - distance. Conversations and messages share the same
// database so one connection string configures the whole service.
package postgres
